// Package sim implements the Monte-Carlo SIC simulator: a 2-D sweep over
// (power-difference x SNR), running independent trials in parallel and
// tallying packet delivery rate (PDR) for both the stronger and weaker
// signal.
package sim

import "fmt"

// Protocol selects which PHY a sweep leg uses.
type Protocol string

const (
	ProtoBLE     Protocol = "ble"
	ProtoDSSS154 Protocol = "802154"
)

// BLERate is the BLE air rate used when a leg's Protocol is ProtoBLE.
type BLERate float64

const (
	BLERate1M BLERate = 1_000_000
	BLERate2M BLERate = 2_000_000
)

// Range is an inclusive [Lo, Hi] span, used for frequency, phase, and
// sample-shift randomisation ranges.
type Range struct {
	Lo, Hi float64
}

// Config is the simulator's configuration record (spec §4.8/§6).
type Config struct {
	SamplingRateHz float64 `yaml:"sampling_rate_hz"`

	ProtocolHigh Protocol `yaml:"protocol_high"`
	ProtocolLow  Protocol `yaml:"protocol_low"`
	BLERateHigh  BLERate  `yaml:"ble_rate_high"`
	BLERateLow   BLERate  `yaml:"ble_rate_low"`

	HighPowerDB float64   `yaml:"high_power_db"`
	LowPowersDB []float64 `yaml:"low_powers_db"`
	SNRLowsDB   []float64 `yaml:"snr_lows_db"`

	CoarseFreqRange Range   `yaml:"coarse_freq_range_hz"`
	CoarseFreqStep  float64 `yaml:"coarse_freq_step_hz"`
	FineWindowHz    float64 `yaml:"fine_window_hz"` // 0 disables the fine pass
	FineStepHz      float64 `yaml:"fine_step_hz"`

	PayloadLenHigh int `yaml:"payload_len_high"`
	PayloadLenLow  int `yaml:"payload_len_low"`

	FreqRangeHz   Range `yaml:"freq_range_hz"`   // carrier offset randomisation, both signals
	PhaseRangeRad Range `yaml:"phase_range_rad"` // both signals

	FixedFreqHz *float64 `yaml:"fixed_freq_hz,omitempty"`
	FixedPhase  *float64 `yaml:"fixed_phase_rad,omitempty"`
	ShiftRange  Range    `yaml:"sample_shift_range"` // fractional-delay range, samples

	ADCBits int     `yaml:"adc_bits"`
	ADCVmax float64 `yaml:"adc_vmax"`
	PadSamp int     `yaml:"pad_samples"`

	NumTrials int   `yaml:"num_trials"`
	Seed      int64 `yaml:"seed"`
}

// Validate checks the configuration-error category of spec §7: invalid
// BLE rate, unknown protocol, or a sample rate that isn't an integer
// multiple of either leg's transmission rate.
func (c Config) Validate() error {
	for _, p := range []Protocol{c.ProtocolHigh, c.ProtocolLow} {
		if p != ProtoBLE && p != ProtoDSSS154 {
			return fmt.Errorf("sim: unknown protocol %q", p)
		}
	}
	if c.ProtocolHigh == ProtoBLE {
		if err := validBLERate(c.BLERateHigh); err != nil {
			return err
		}
	}
	if c.ProtocolLow == ProtoBLE {
		if err := validBLERate(c.BLERateLow); err != nil {
			return err
		}
	}
	if c.SamplingRateHz <= 0 {
		return fmt.Errorf("sim: sampling rate must be positive")
	}
	for _, rate := range legRates(c) {
		sps := c.SamplingRateHz / rate
		if sps != float64(int(sps)) {
			return fmt.Errorf("sim: sampling rate %.0f is not an integer multiple of rate %.0f", c.SamplingRateHz, rate)
		}
	}
	return nil
}

func validBLERate(r BLERate) error {
	if r != BLERate1M && r != BLERate2M {
		return fmt.Errorf("sim: invalid BLE rate %v", r)
	}
	return nil
}

func legRates(c Config) []float64 {
	var out []float64
	if c.ProtocolHigh == ProtoBLE {
		out = append(out, float64(c.BLERateHigh))
	} else {
		out = append(out, 2_000_000)
	}
	if c.ProtocolLow == ProtoBLE {
		out = append(out, float64(c.BLERateLow))
	} else {
		out = append(out, 2_000_000)
	}
	return out
}
