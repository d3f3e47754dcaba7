package domain

// TaskCategory is a tagged union over the fixed menu of work types shown in
// the start-work flow. The catch-all "Other" variant carries the free-text
// description entered by the user; every other variant has an empty
// description unless the user added a note.
type TaskCategory struct {
	Type        string
	Description string
}

// TaskOther is the catch-all task type requiring a free-text description.
const TaskOther = "✍️ Other"

// TaskTypes is the fixed task menu, in display order. The last item is the
// catch-all.
var TaskTypes = []string{
	"📝 Petition drafting",
	"📄 Contract drafting",
	"💬 Consultation",
	"📚 Research",
	"⚖️ Hearing",
	"📞 Negotiation",
	"🔍 Document review",
	"✉️ Correspondence",
	"🔎 Case-law research",
	"📋 Filing preparation",
	TaskOther,
}

// TaskByIndex returns the task type at i in the fixed menu, or "" when i is
// out of range (e.g. a forged or stale callback).
func TaskByIndex(i int) string {
	if i < 0 || i >= len(TaskTypes) {
		return ""
	}
	return TaskTypes[i]
}

// IsOther reports whether the category requires a free-text description.
func (t TaskCategory) IsOther() bool { return t.Type == TaskOther }

// Label renders the category for display and export: the type, with the
// description appended in parentheses when present.
func (t TaskCategory) Label() string {
	if t.Description != "" {
		return t.Type + " (" + t.Description + ")"
	}
	return t.Type
}

// TaskLabel formats a stored task type and optional description the same way
// Label does, for rows read back from the store.
func TaskLabel(taskType string, description *string) string {
	if description != nil && *description != "" {
		return taskType + " (" + *description + ")"
	}
	return taskType
}
