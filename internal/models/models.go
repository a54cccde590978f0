// Package models defines the JSON data model for the tpa2016d HTTP API.
package models

// FaultStatus holds the amplifier's latched fault flags.
type FaultStatus struct {
	Right   bool `json:"right"`
	Left    bool `json:"left"`
	Thermal bool `json:"thermal"`
}

// AGCSettings is the automatic gain control envelope as register codes.
type AGCSettings struct {
	AttackCode     int  `json:"attack_code"`       // register 2, 1.28 ms steps
	ReleaseCode    int  `json:"release_code"`      // register 3, 1.644 s steps
	HoldCode       int  `json:"hold_code"`         // register 4, 137 ms steps
	MaxGain        int  `json:"max_gain"`          // register 7 bits 7:4
	Ratio          int  `json:"compression_ratio"` // register 7 bits 1:0
	GateThreshold  int  `json:"noise_gate_threshold"`
	LimiterLevel   int  `json:"limiter_level"`
	LimiterDisable bool `json:"limiter_disable"`
}

// AmpState is the full amplifier state as mirrored by the register shadow.
type AmpState struct {
	SpeakerLeft  bool        `json:"speaker_left"`
	SpeakerRight bool        `json:"speaker_right"`
	Shutdown     bool        `json:"shutdown"`
	NoiseGate    bool        `json:"noise_gate"`
	Gain         int         `json:"gain"`
	AGC          AGCSettings `json:"agc"`
	Faults       FaultStatus `json:"faults"`
	Preset       string      `json:"preset,omitempty"` // last applied preset name
}

// AmpUpdate is a partial update request; nil fields are left unchanged.
// Times are in engineering units and converted with the chip's floor rule.
type AmpUpdate struct {
	SpeakerLeft   *bool `json:"speaker_left,omitempty"`
	SpeakerRight  *bool `json:"speaker_right,omitempty"`
	Shutdown      *bool `json:"shutdown,omitempty"`
	NoiseGate     *bool `json:"noise_gate,omitempty"`
	Gain          *int  `json:"gain,omitempty"`
	AttackUS      *int  `json:"attack_us,omitempty"`
	ReleaseMS     *int  `json:"release_ms,omitempty"`
	HoldMS        *int  `json:"hold_ms,omitempty"`
	Ratio         *int  `json:"compression_ratio,omitempty"`
	GateThreshold *int  `json:"noise_gate_threshold,omitempty"`
	LimiterLevel  *int  `json:"limiter_level,omitempty"`
}
