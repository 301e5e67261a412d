package syncer

// Prompter is the user-interaction surface the synchronizers drive: prompts,
// confirmations, alerts, transient toasts and option sheets. The CLI
// provides a terminal implementation; tests script one.
type Prompter interface {
	// Prompt asks for a line of input. ok is false when the user cancelled.
	Prompt(title, message, initial string) (value string, ok bool)
	// Confirm asks a yes/no question.
	Confirm(title, message string) bool
	// Alert shows a blocking error or info notice.
	Alert(title, message string)
	// Toast shows a transient notice.
	Toast(message string)
	// ChooseOption presents a selection sheet. ok is false on cancel.
	ChooseOption(title string, options []string) (choice string, ok bool)
}

// FilePicker selects an image from the local filesystem.
type FilePicker interface {
	// PickImage returns the picked file path. ok is false on cancel.
	PickImage() (path string, ok bool)
}
