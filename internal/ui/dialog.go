package ui

// FileCallback receives the outcome of a file dialog. ok is false when the
// user cancelled.
type FileCallback func(path string, ok bool)

// Dialogs shows modal file dialogs. Results are delivered asynchronously on
// the UI loop; a cancelled dialog calls done with ok false.
type Dialogs interface {
	OpenFile(title, dir, filter string, done FileCallback)
	SaveFile(title, dir, filter string, done FileCallback)
	Message(title, text string)
}

// DialogAnswer is one scripted dialog result.
type DialogAnswer struct {
	Path string
	OK   bool
}

// ScriptedDialogs answers dialogs from a queue. When the queue is empty every
// dialog is cancelled. It is used by the headless front-end and by tests.
type ScriptedDialogs struct {
	Answers []DialogAnswer

	// Asked records the title of every dialog shown, in order.
	Asked []string
	// Dirs records the starting directory of every file dialog.
	Dirs []string
}

// Queue appends answers.
func (d *ScriptedDialogs) Queue(answers ...DialogAnswer) {
	d.Answers = append(d.Answers, answers...)
}

// OpenFile implements Dialogs.
func (d *ScriptedDialogs) OpenFile(title, dir, _ string, done FileCallback) {
	d.answer(title, dir, done)
}

// SaveFile implements Dialogs.
func (d *ScriptedDialogs) SaveFile(title, dir, _ string, done FileCallback) {
	d.answer(title, dir, done)
}

// Message implements Dialogs.
func (d *ScriptedDialogs) Message(title, _ string) {
	d.Asked = append(d.Asked, title)
}

func (d *ScriptedDialogs) answer(title, dir string, done FileCallback) {
	d.Asked = append(d.Asked, title)
	d.Dirs = append(d.Dirs, dir)
	var a DialogAnswer
	if len(d.Answers) > 0 {
		a, d.Answers = d.Answers[0], d.Answers[1:]
	}
	if done != nil {
		done(a.Path, a.OK)
	}
}
