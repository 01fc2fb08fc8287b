package panel

import (
	"fmt"
	"sync"
	"time"

	"github.com/benmeehan/absensi-agent/internal/gate"
)

// GPS states shown next to the GPS label.
const (
	GPSPending     = "pending"
	GPSInRange     = "in_range"
	GPSOutOfRange  = "out_of_range"
	GPSUnavailable = "unavailable"
)

// Status messages shown to the user.
const (
	MsgPhotoRequired  = "Ambil foto terlebih dahulu!"
	MsgSubmitFailed   = "Gagal mengirim data."
	MsgGPSUnavailable = "GPS tidak aktif!"
	MsgLocationWait   = "Menunggu lokasi..."
	MsgOutOfWindow    = "Di luar jam absensi."
	MsgOutOfRange     = "Anda di luar jangkauan! Absensi ditolak."
)

// SubmitSucceeded is the status message after a delivered submission.
func SubmitSucceeded(kind gate.Kind) string {
	return fmt.Sprintf("Absensi %s berhasil!", kind)
}

// ActionDisabled is the status message for a click on a disabled control.
func ActionDisabled(state gate.ControlState) string {
	if state == gate.DisabledOutOfTimeWindow {
		return MsgOutOfWindow
	}
	return MsgOutOfRange
}

// TimeLabel renders the clock line.
func TimeLabel(now time.Time) string {
	return fmt.Sprintf("Waktu saat ini: %02d:%02d", now.Hour(), now.Minute())
}

// RangeLabel renders the GPS line for a range decision.
func RangeLabel(d gate.Decision) string {
	if d.WithinRange {
		return fmt.Sprintf("Anda dalam jangkauan (%.0fm).", d.DistanceMeters)
	}
	return fmt.Sprintf("Anda di luar jangkauan (%.0fm)! Absensi ditolak.", d.DistanceMeters)
}

// Snapshot is a consistent copy of everything on the panel.
type Snapshot struct {
	Time           string                          `json:"time"`
	GPSState       string                          `json:"gps_state"`
	GPSStatus      string                          `json:"gps_status"`
	DistanceMeters *float64                        `json:"distance_meters,omitempty"`
	Status         string                          `json:"status"`
	Photo          string                          `json:"photo,omitempty"`
	CameraReady    bool                            `json:"camera_ready"`
	Controls       map[gate.Kind]gate.ControlState `json:"controls"`
}

// Panel is the display state of the kiosk. All methods are safe for
// concurrent use.
type Panel struct {
	mu   sync.RWMutex
	snap Snapshot
}

func New() *Panel {
	controls := make(map[gate.Kind]gate.ControlState, len(gate.Kinds))
	for _, k := range gate.Kinds {
		controls[k] = gate.DisabledOutOfTimeWindow
	}
	return &Panel{snap: Snapshot{
		GPSState:  GPSPending,
		GPSStatus: MsgLocationWait,
		Controls:  controls,
	}}
}

func (p *Panel) SetTime(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Time = TimeLabel(now)
}

// SetRange shows the outcome of a range evaluation.
func (p *Panel) SetRange(d gate.Decision) {
	p.mu.Lock()
	defer p.mu.Unlock()
	distance := d.DistanceMeters
	p.snap.DistanceMeters = &distance
	p.snap.GPSStatus = RangeLabel(d)
	if d.WithinRange {
		p.snap.GPSState = GPSInRange
	} else {
		p.snap.GPSState = GPSOutOfRange
	}
}

func (p *Panel) SetGPSUnavailable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.DistanceMeters = nil
	p.snap.GPSState = GPSUnavailable
	p.snap.GPSStatus = MsgGPSUnavailable
}

func (p *Panel) SetStatus(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Status = msg
}

func (p *Panel) SetPhoto(dataURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Photo = dataURL
}

func (p *Panel) SetCameraReady(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.CameraReady = ready
}

func (p *Panel) SetControl(kind gate.Kind, state gate.ControlState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Controls[kind] = state
}

// Control returns the current state of the kind control.
func (p *Panel) Control(kind gate.Kind) gate.ControlState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.snap.Controls[kind]
	if !ok {
		return gate.DisabledOutOfTimeWindow
	}
	return state
}

func (p *Panel) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.snap
	s.Controls = make(map[gate.Kind]gate.ControlState, len(p.snap.Controls))
	for k, v := range p.snap.Controls {
		s.Controls[k] = v
	}
	if p.snap.DistanceMeters != nil {
		d := *p.snap.DistanceMeters
		s.DistanceMeters = &d
	}
	return s
}
