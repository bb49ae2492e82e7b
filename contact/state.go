package contact

import "github.com/adammarchelino/portfolio/store"

type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

type Fields struct {
	Name    string
	Email   string
	Message string
}

type StatusKind int

const (
	KindNone StatusKind = iota
	KindInfo
	KindSuccess
	KindError
)

func (k StatusKind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return ""
	}
}

type Status struct {
	Text string
	Kind StatusKind
}

type State struct {
	Fields
	Status   Status
	InFlight bool
	// Identity is never shown to visitors and grants nothing.
	Identity    string
	FeedVisible bool
	Messages    store.Snapshot
}

// StatusVisible reports whether the status banner is shown.
func (s State) StatusVisible() bool {
	return s.Status.Text != ""
}

// SubmitLabel is the text of the submit control.
func (s State) SubmitLabel() string {
	if s.InFlight {
		return StatusSending
	}
	return "💌 Kirim Pesan"
}
