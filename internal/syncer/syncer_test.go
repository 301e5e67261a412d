package syncer

// Shared test doubles for the synchronizer tests: a scripted prompter, a
// fixed file picker and a memory-backed session manager.

import (
	"go.uber.org/zap"

	"chatrum/internal/session"
)

// scriptPrompter answers prompts from a prepared script and records
// everything it was asked to show.
type scriptPrompter struct {
	answers   []string // consumed front to back by Prompt
	confirm   bool
	choice    string
	chooseOK  bool
	alerts    []string
	toasts    []string
	questions []string
}

func (p *scriptPrompter) Prompt(title, message, initial string) (string, bool) {
	p.questions = append(p.questions, message)
	if len(p.answers) == 0 {
		return "", false
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	if answer == "" {
		return "", false
	}
	return answer, true
}

func (p *scriptPrompter) Confirm(title, message string) bool {
	p.questions = append(p.questions, message)
	return p.confirm
}

func (p *scriptPrompter) Alert(title, message string) {
	p.alerts = append(p.alerts, message)
}

func (p *scriptPrompter) Toast(message string) {
	p.toasts = append(p.toasts, message)
}

func (p *scriptPrompter) ChooseOption(title string, options []string) (string, bool) {
	return p.choice, p.chooseOK
}

// fixedPicker always picks the same path.
type fixedPicker struct {
	path string
	ok   bool
}

func (f *fixedPicker) PickImage() (string, bool) {
	return f.path, f.ok
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// testSessions builds a session manager over a memory store holding the
// given identity. Empty values leave the key unset.
func testSessions(userID, userName, picture string) *session.Manager {
	store := session.NewMemoryStore()
	if userID != "" {
		store.Set(session.KeyUserID, userID)
	}
	if userName != "" {
		store.Set(session.KeyUserName, userName)
	}
	if picture != "" {
		store.Set(session.KeyProfilePicture, picture)
	}
	if userID != "" {
		store.Set(session.KeyAccessToken, "token-"+userID)
	}
	return session.NewManager(store, testLogger())
}
