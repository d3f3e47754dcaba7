package bot

import (
	"fmt"

	"github.com/timebill/timebill-bot/internal/services"
)

const helpText = `👋 *Welcome to the time-tracking bot!*

📋 *Clients & projects:*
/add\_client — add a client
/add\_project — add a project
/clients — list clients
/projects — list projects

⏱ *Time tracking:*
/work — start working
/stop — stop working
/status — current status

📊 *Reports:*
/today — today's report
/week — weekly report
/month — monthly report
/summary — client summary
/export — export to Excel

ℹ️ *Misc:*
/help — this help
/cancel — cancel the current operation

Start by adding a client with /add\_client!`

const (
	msgGenericFailure = "⚠️ Something went wrong, please try again."

	msgNoClients  = "⚠️ You have no clients yet!\n\nAdd one with /add_client"
	msgNoProjects = "⚠️ You have no projects yet!\n\nAdd one with /add_project"

	msgAskClientName  = "📋 *Add client*\n\nEnter the client/company name:"
	msgAskProjectName = "📝 Enter the project name:"
	msgAskRate        = "💰 Enter the hourly rate (or 0 for unpaid work):"
	msgBadRate        = "⚠️ Please enter a valid number (e.g. 1500 or 0)"
	msgAskTaskText    = "✍️ Describe the task:"

	msgNothingToStop = "⚠️ No active work to stop."
	msgNoActive      = "ℹ️ No active work.\n\nStart with /work"
	msgCancelled     = "❌ Operation cancelled."
	msgNothingOpen   = "ℹ️ Nothing to cancel."
	msgStaleMenu     = "This menu is no longer active."
	msgUseHelp       = "ℹ️ Use /help to see the available commands."
)

// rateText renders an hourly rate, or "unpaid" for zero.
func (b *Bot) rateText(rate float64) string {
	if rate > 0 {
		return fmt.Sprintf("%.2f %s/h", rate, b.Currency)
	}
	return "unpaid"
}

func (b *Bot) activeWorkText(w *services.ActiveWork) string {
	return fmt.Sprintf(
		"⏱ *Active work*\n\n🏢 Client: %s\n📁 Project: %s\n📝 Task: %s\n⏰ Started: %s\n⏱ Elapsed: *%.2f h*",
		w.Client, w.Project, w.Task.Label(), w.StartTime.Format("15:04"), w.Hours,
	)
}

func (b *Bot) alreadyActiveText(w *services.ActiveWork) string {
	return fmt.Sprintf(
		"⚠️ You already have active work!\n\n🏢 Client: %s\n📁 Project: %s\n📝 Task: %s\n⏱ Elapsed: %.2f h\n\nFinish it with /stop",
		w.Client, w.Project, w.Task.Label(), w.Hours,
	)
}

func (b *Bot) startedText(w *services.StartedWork) string {
	return fmt.Sprintf(
		"✅ *Timer started!*\n\n🏢 Client: %s\n📁 Project: %s\n📝 Task: %s\n⏰ Started: %s",
		w.Client, w.Project, w.Task.Label(), w.StartTime.Format("15:04"),
	)
}

func (b *Bot) stoppedText(w *services.StoppedWork) string {
	return fmt.Sprintf(
		"✅ *Work finished!*\n\n🏢 Client: %s\n📁 Project: %s\n📝 Task: %s\n⏱ Duration: *%.2f h*",
		w.Client, w.Project, w.Task.Label(), w.Hours,
	)
}

func (b *Bot) subscribeText() string {
	return fmt.Sprintf("❌ To use the bot, subscribe to the channel first:\n👉 %s", b.ChannelLink)
}
