package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/hbudget/internal/model"
)

const (
	// SettingsVersion is the current persisted layout.
	SettingsVersion = 1

	// SettingsKey is the key settings are stored under.
	SettingsKey = "forecast_inputs_v1"
)

// Settings is the user's forecast configuration: horizon, starting
// balances and per-month adjustments keyed by month key.
type Settings struct {
	Version     int                         `json:"version"`
	MonthsAhead int                         `json:"monthsAhead"`
	PerMonth    map[string]model.Adjustment `json:"perMonth"`

	StartOverflow     float64 `json:"startOverflow"`
	StartHYS          float64 `json:"startHys"`
	StartUserOverride bool    `json:"startUserOverride"`

	LastAutoOverflow float64 `json:"lastAutoOverflow"`
	LastAutoHYS      float64 `json:"lastAutoHys"`
}

// DefaultSettings returns a fresh configuration.
func DefaultSettings() Settings {
	return Settings{
		Version:     SettingsVersion,
		MonthsAhead: DefaultMonthsAhead,
		PerMonth:    make(map[string]model.Adjustment),
	}
}

func (s *Settings) normalize() {
	if s.Version == 0 {
		s.Version = SettingsVersion
	}
	s.MonthsAhead = ClampMonthsAhead(s.MonthsAhead)
	if s.PerMonth == nil {
		s.PerMonth = make(map[string]model.Adjustment)
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.PerMonth = make(map[string]model.Adjustment, len(s.PerMonth))
	for k, v := range s.PerMonth {
		out.PerMonth[k] = v
	}
	return out
}

// SetMonthsAhead sets the horizon, clamped.
func (s *Settings) SetMonthsAhead(n int) {
	s.MonthsAhead = ClampMonthsAhead(n)
}

// SetStartOverflow pins the starting overflow balance, rounded to whole
// dollars. Pinned balances are no longer replaced by plan balances.
func (s *Settings) SetStartOverflow(v float64) {
	s.StartOverflow = math.Round(finite(v))
	s.StartUserOverride = true
}

// SetStartHYS pins the starting HYS balance.
func (s *Settings) SetStartHYS(v float64) {
	s.StartHYS = math.Round(finite(v))
	s.StartUserOverride = true
}

// ResetStart unpins the starting balances and restores the last values
// taken from the plan.
func (s *Settings) ResetStart() {
	s.StartUserOverride = false
	s.StartOverflow = s.LastAutoOverflow
	s.StartHYS = s.LastAutoHYS
}

// ApplyAutoStart records balances read from the plan and uses them as the
// starting balances unless the user pinned their own.
func (s *Settings) ApplyAutoStart(overflow, hys float64) {
	s.LastAutoOverflow = math.Round(finite(overflow))
	s.LastAutoHYS = math.Round(finite(hys))
	if !s.StartUserOverride {
		s.StartOverflow = s.LastAutoOverflow
		s.StartHYS = s.LastAutoHYS
	}
}

// Inputs builds projector inputs from the settings.
func (s Settings) Inputs(base model.Month, baseFixed, baseDiscControlled float64, payroll Payroll) Inputs {
	return Inputs{
		BaseMonth:          base,
		MonthsAhead:        s.MonthsAhead,
		BaseFixed:          baseFixed,
		BaseDiscControlled: baseDiscControlled,
		Payroll:            payroll,
		StartOverflow:      s.StartOverflow,
		StartHYS:           s.StartHYS,
		Adjustments:        s.PerMonth,
	}
}

// Adjustment returns the adjustment for m, zero when unset.
func (s Settings) Adjustment(m model.Month) model.Adjustment {
	return s.PerMonth[m.Key()]
}

// SetAdjustment replaces the adjustment for m.
func (s *Settings) SetAdjustment(m model.Month, adj model.Adjustment) {
	if s.PerMonth == nil {
		s.PerMonth = make(map[string]model.Adjustment)
	}
	s.PerMonth[m.Key()] = adj
}

// SetField changes one field of m's adjustment.
func (s *Settings) SetField(m model.Month, f Field, v float64) {
	adj := s.Adjustment(m)
	v = finite(v)
	switch f {
	case FieldIncomeAdd:
		adj.IncomeAdd = v
	case FieldAddFixed:
		adj.AddFixed = v
	case FieldAddDisc:
		adj.AddDisc = v
	case FieldHYSTransfer:
		adj.HYSTransfer = v
	}
	s.SetAdjustment(m, adj)
}

// MergeSheet overlays adjustments read from the sheet; the sheet wins for
// every month it carries.
func (s *Settings) MergeSheet(sheet map[string]model.Adjustment) {
	for k, v := range sheet {
		if s.PerMonth == nil {
			s.PerMonth = make(map[string]model.Adjustment)
		}
		s.PerMonth[k] = v
	}
}

// Field names one of the four adjustment kinds.
type Field int

const (
	FieldIncomeAdd Field = iota
	FieldAddFixed
	FieldAddDisc
	FieldHYSTransfer
)

// Fields lists the adjustment kinds in sheet row order.
var Fields = []Field{FieldIncomeAdd, FieldAddFixed, FieldAddDisc, FieldHYSTransfer}

var fieldNames = map[Field]string{
	FieldIncomeAdd:   "incomeAdd",
	FieldAddFixed:    "addFixed",
	FieldAddDisc:     "addDisc",
	FieldHYSTransfer: "hysTransfer",
}

func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField accepts the JSON field names case-insensitively, plus a few
// short aliases.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incomeadd", "income":
		return FieldIncomeAdd, nil
	case "addfixed", "fixed":
		return FieldAddFixed, nil
	case "adddisc", "disc", "discretionary":
		return FieldAddDisc, nil
	case "hystransfer", "hys":
		return FieldHYSTransfer, nil
	}
	return 0, fmt.Errorf("unknown adjustment field %q (want incomeAdd, addFixed, addDisc or hysTransfer)", s)
}

// SettingsStore persists opaque values by key.
type SettingsStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// LoadSettings reads settings from st. Missing settings yield defaults; a
// corrupt value yields defaults along with the decode error.
func LoadSettings(st SettingsStore) (Settings, error) {
	raw, ok, err := st.Get(SettingsKey)
	if err != nil {
		return DefaultSettings(), fmt.Errorf("reading forecast settings: %w", err)
	}
	if !ok {
		return DefaultSettings(), nil
	}

	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("decoding forecast settings: %w", err)
	}
	if s.Version > SettingsVersion {
		return DefaultSettings(), fmt.Errorf("forecast settings version %d is newer than supported %d", s.Version, SettingsVersion)
	}
	s.normalize()
	return s, nil
}

// SaveSettings writes settings to st.
func SaveSettings(st SettingsStore, s Settings) error {
	s.normalize()
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding forecast settings: %w", err)
	}
	if err := st.Put(SettingsKey, raw); err != nil {
		return fmt.Errorf("writing forecast settings: %w", err)
	}
	return nil
}
