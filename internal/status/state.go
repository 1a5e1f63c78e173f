package status

import (
	"sync"
	"time"

	"atg_sender/models"
)

// Snapshot — состояние программы, отдаваемое по GET /status.
type Snapshot struct {
	Account      string              `json:"account"`
	LoggedIn     bool                `json:"logged_in"`
	MessageDelay int                 `json:"message_delay"`
	LastReport   *models.RoundReport `json:"last_report,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// State хранит последний снимок. Оболочка пишет из своей горутины,
// HTTP-обработчики читают копию.
type State struct {
	mu   sync.Mutex
	snap Snapshot
	now  func() time.Time
}

func NewState() *State {
	return &State{now: time.Now}
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Снимок заменяется целиком, чтобы уже выданные копии не менялись
	next := s.snap
	fn(&next)
	next.UpdatedAt = s.now()
	s.snap = next
}

func (s *State) SetAccount(name string) {
	s.update(func(sn *Snapshot) {
		sn.Account = name
		sn.LoggedIn = name != ""
	})
}

func (s *State) SetMessageDelay(seconds int) {
	s.update(func(sn *Snapshot) { sn.MessageDelay = seconds })
}

func (s *State) SetReport(r models.RoundReport) {
	r.Failures = append([]models.SendResult(nil), r.Failures...)
	s.update(func(sn *Snapshot) { sn.LastReport = &r })
}

// Snapshot возвращает копию текущего состояния.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
