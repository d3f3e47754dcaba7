// Package report renders completed time entries into the Markdown-flavoured
// text the bot sends for the /today, /week, /month and /summary commands.
//
// Both renderers group with a stable group-by: group keys are iterated in
// ascending order while rows inside a group keep the order they arrived in
// (newest first, as loaded). Cost lines are omitted entirely, at every
// aggregation level, whenever the summed cost for that scope is not strictly
// positive; zero-rate projects therefore never show a currency figure.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Row is one completed entry with its derived cost, the unit of all report
// and export projections.
type Row struct {
	Start   time.Time
	Client  string
	Project string
	// Task is the task-category label with any description already appended
	// in parentheses.
	Task  string
	Hours float64
	Rate  float64
	Cost  float64
}

// groupKey identifies a (client, project) group in the hierarchical report.
type groupKey struct {
	client  string
	project string
}

// FormatHierarchical renders rows grouped by (client, project) under the
// given title. Each group lists its entries, then a subtotal of hours with
// the cost appended only when positive; the report closes with a grand-total
// block. Empty input yields a fixed no-records message under the title.
func FormatHierarchical(rows []Row, title, currency string) string {
	if len(rows) == 0 {
		return fmt.Sprintf("*%s*\n\nNo records for this period.", title)
	}

	groups := make(map[groupKey][]Row)
	var keys []groupKey
	for _, r := range rows {
		k := groupKey{r.Client, r.Project}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].client != keys[j].client {
			return keys[i].client < keys[j].client
		}
		return keys[i].project < keys[j].project
	})

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", title)

	var totalHours, totalCost float64
	for _, k := range keys {
		var groupHours, groupCost float64
		fmt.Fprintf(&b, "📁 *%s → %s*\n", k.client, k.project)
		for _, r := range groups[k] {
			fmt.Fprintf(&b, "  • %s: %.2f h\n", r.Task, r.Hours)
			groupHours += r.Hours
			groupCost += r.Cost
		}
		fmt.Fprintf(&b, "  ⏱ *Subtotal:* %.2f h", groupHours)
		if groupCost > 0 {
			fmt.Fprintf(&b, " | 💰 *%.2f %s*", groupCost, currency)
		}
		b.WriteString("\n\n")
		totalHours += groupHours
		totalCost += groupCost
	}

	b.WriteString("*📊 TOTAL:*\n")
	fmt.Fprintf(&b, "⏱ Hours: *%.2f*\n", totalHours)
	if totalCost > 0 {
		fmt.Fprintf(&b, "💰 Revenue: *%.2f %s*", totalCost, currency)
	}
	return b.String()
}

// SummaryTitle is the fixed heading of the client-level summary.
const SummaryTitle = "📊 Client summary (30 days)"

// FormatClientSummary renders a two-level rollup: per-project subtotal lines
// under each client, a per-client total, and a closing overall block. Empty
// input yields the fixed no-records message under the fixed summary title.
func FormatClientSummary(rows []Row, currency string) string {
	if len(rows) == 0 {
		return fmt.Sprintf("*%s*\n\nNo records for this period.", SummaryTitle)
	}

	byClient := make(map[string]map[string][]Row)
	for _, r := range rows {
		if byClient[r.Client] == nil {
			byClient[r.Client] = make(map[string][]Row)
		}
		byClient[r.Client][r.Project] = append(byClient[r.Client][r.Project], r)
	}
	clients := make([]string, 0, len(byClient))
	for c := range byClient {
		clients = append(clients, c)
	}
	sort.Strings(clients)

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", SummaryTitle)

	var totalHours, totalCost float64
	for _, client := range clients {
		projects := make([]string, 0, len(byClient[client]))
		for p := range byClient[client] {
			projects = append(projects, p)
		}
		sort.Strings(projects)

		var clientHours, clientCost float64
		fmt.Fprintf(&b, "🏢 *%s*\n", client)
		for _, project := range projects {
			var projectHours, projectCost float64
			for _, r := range byClient[client][project] {
				projectHours += r.Hours
				projectCost += r.Cost
			}
			fmt.Fprintf(&b, "  📁 %s: %.2f h", project, projectHours)
			if projectCost > 0 {
				fmt.Fprintf(&b, " | %.2f %s", projectCost, currency)
			}
			b.WriteString("\n")
			clientHours += projectHours
			clientCost += projectCost
		}
		fmt.Fprintf(&b, "  *Client total:* %.2f h", clientHours)
		if clientCost > 0 {
			fmt.Fprintf(&b, " | *%.2f %s*", clientCost, currency)
		}
		b.WriteString("\n\n")
		totalHours += clientHours
		totalCost += clientCost
	}

	b.WriteString("*💼 OVERALL:*\n")
	fmt.Fprintf(&b, "⏱ Total hours: *%.2f*\n", totalHours)
	if totalCost > 0 {
		fmt.Fprintf(&b, "💰 Total revenue: *%.2f %s*", totalCost, currency)
	}
	return b.String()
}
