package engine

import (
	"fmt"
)

// ProbationStatus is the probation outcome of an employee.
type ProbationStatus string

const (
	StatusLulus        ProbationStatus = "Lulus"
	StatusDiperpanjang ProbationStatus = "Diperpanjang"
	StatusTidakLulus   ProbationStatus = "Tidak Lulus"
	// StatusUnknown marks a record whose working status could not be read.
	// Such records are dropped before any statistic is computed.
	StatusUnknown ProbationStatus = "Unknown"
)

// Passed reports whether the employee made it past probation, either
// outright or through an extension.
func (s ProbationStatus) Passed() bool {
	return s == StatusLulus || s == StatusDiperpanjang
}

// Progression is the contract journey of an employee. The set is closed;
// display strings live in progressionTable.
type Progression int

const (
	ProgressionUnknown Progression = iota
	ProgressionProbationExtendedThird
	ProgressionProbationExtendedSecond
	ProgressionProbationExtended
	ProgressionProbationFailed
	ProgressionPermanentAfterContract
	ProgressionPermanentDirect
	ProgressionContractThirdActive
	ProgressionContractSecondActive
	ProgressionContractFirstActive
	ProgressionContractThirdResigned
	ProgressionContractSecondResigned
	ProgressionContractPermanentResigned
	ProgressionContractUnclear
)

type progressionInfo struct {
	label     string
	outcome   ProbationStatus
	active    bool
	resigned  bool
	permanent bool
}

var progressionTable = map[Progression]progressionInfo{
	ProgressionUnknown:                   {label: "Unknown", outcome: StatusUnknown},
	ProgressionProbationExtendedThird:    {label: "Probation Diperpanjang ke Kontrak ke-3", outcome: StatusDiperpanjang},
	ProgressionProbationExtendedSecond:   {label: "Probation Diperpanjang ke Kontrak ke-2", outcome: StatusDiperpanjang},
	ProgressionProbationExtended:         {label: "Probation Diperpanjang ke Kontrak", outcome: StatusDiperpanjang},
	ProgressionProbationFailed:           {label: "Gagal Probation", outcome: StatusTidakLulus},
	ProgressionPermanentAfterContract:    {label: "Permanen Setelah Kontrak", outcome: StatusLulus, permanent: true},
	ProgressionPermanentDirect:           {label: "Langsung Permanen", outcome: StatusLulus, permanent: true},
	ProgressionContractThirdActive:       {label: "Probation Diperpanjang → Kontrak ke-3 Aktif", outcome: StatusLulus, active: true},
	ProgressionContractSecondActive:      {label: "Probation Diperpanjang → Kontrak ke-2 Aktif", outcome: StatusLulus, active: true},
	ProgressionContractFirstActive:       {label: "Probation → Kontrak ke-1 Aktif", outcome: StatusLulus, active: true},
	ProgressionContractThirdResigned:     {label: "Probation → Kontrak ke-3 (Resign)", outcome: StatusLulus, resigned: true},
	ProgressionContractSecondResigned:    {label: "Probation → Kontrak ke-2 (Resign)", outcome: StatusLulus, resigned: true},
	ProgressionContractPermanentResigned: {label: "Probation → Kontrak-Permanent (Resign)", outcome: StatusLulus, resigned: true},
	ProgressionContractUnclear:           {label: "Kontrak Status Tidak Jelas", outcome: StatusLulus},
}

// Progressions lists every known progression in declaration order,
// excluding ProgressionUnknown.
func Progressions() []Progression {
	out := make([]Progression, 0, len(progressionTable)-1)
	for p := ProgressionProbationExtendedThird; p <= ProgressionContractUnclear; p++ {
		out = append(out, p)
	}
	return out
}

// String returns the display label.
func (p Progression) String() string {
	if info, ok := progressionTable[p]; ok {
		return info.label
	}
	return fmt.Sprintf("Progression(%d)", int(p))
}

// Outcome is the probation status every record with this progression has.
func (p Progression) Outcome() ProbationStatus {
	return progressionTable[p].outcome
}

// Active reports a contract that is still running.
func (p Progression) Active() bool { return progressionTable[p].active }

// Resigned reports a journey that ended in resignation; its duration is
// measured up to the resign date.
func (p Progression) Resigned() bool { return progressionTable[p].resigned }

// Permanent reports a journey that ended in a permanent position.
func (p Progression) Permanent() bool { return progressionTable[p].permanent }

// MarshalText encodes the display label.
func (p Progression) MarshalText() ([]byte, error) {
	if _, ok := progressionTable[p]; !ok {
		return nil, fmt.Errorf("unknown progression %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a display label.
func (p *Progression) UnmarshalText(text []byte) error {
	parsed, err := ParseProgression(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseProgression maps a display label back to its Progression.
func ParseProgression(label string) (Progression, error) {
	for p, info := range progressionTable {
		if info.label == label {
			return p, nil
		}
	}
	return ProgressionUnknown, fmt.Errorf("unknown progression label %q", label)
}

// Stage is the human-readable contract stage reached.
type Stage int

const (
	StageUnknown Stage = iota
	StageProbationToThird
	StageProbationToSecond
	StageProbationToContract
	StageProbationFailed
	StageThirdToPermanent
	StageSecondToPermanent
	StageDirectPermanent
	StageThirdActive
	StageSecondActive
	StageFirstActive
	StageThirdResigned
	StageSecondResigned
	StagePermanentResigned
	StageUnclear
)

var stageLabels = map[Stage]string{
	StageUnknown:             "Unknown",
	StageProbationToThird:    "Probation → Kontrak ke-3",
	StageProbationToSecond:   "Probation → Kontrak ke-2",
	StageProbationToContract: "Probation → Kontrak",
	StageProbationFailed:     "Probation (Gagal)",
	StageThirdToPermanent:    "Kontrak ke-3 → Permanen",
	StageSecondToPermanent:   "Kontrak ke-2 → Permanen",
	StageDirectPermanent:     "Probation → Langsung Permanen",
	StageThirdActive:         "Probation → Kontrak ke-3 (Aktif)",
	StageSecondActive:        "Probation → Kontrak ke-2 (Aktif)",
	StageFirstActive:         "Probation → Kontrak ke-1 (Aktif)",
	StageThirdResigned:       "Probation → Kontrak ke-3 (Resign)",
	StageSecondResigned:      "Probation → Kontrak ke-2 (Resign)",
	StagePermanentResigned:   "Probation → Kontrak-Permanent (Resign)",
	StageUnclear:             "Status Tidak Jelas",
}

func (s Stage) String() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// MarshalText encodes the display label.
func (s Stage) MarshalText() ([]byte, error) {
	if _, ok := stageLabels[s]; !ok {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a display label.
func (s *Stage) UnmarshalText(text []byte) error {
	for st, label := range stageLabels {
		if label == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage label %q", string(text))
}
