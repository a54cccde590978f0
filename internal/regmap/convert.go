package regmap

// Time step sizes from the datasheet's AGC timing tables. Conversions divide
// and floor: sub-step remainders are dropped, and the result is masked to
// the 6-bit register width.
const (
	attackStepUS  = 1280 // 1.28 ms of attack time per code step
	releaseStepMS = 1644 // 1.644 s of release time per code step
	holdStepMS    = 137  // 137 ms of hold time per code step
)

// AttackCode converts an attack time in microseconds to a register 2 code.
func AttackCode(us int) byte {
	return byte(us/attackStepUS) & 0x3F
}

// ReleaseCode converts a release time in milliseconds to a register 3 code.
func ReleaseCode(ms int) byte {
	return byte(ms/releaseStepMS) & 0x3F
}

// HoldCode converts a hold time in milliseconds to a register 4 code.
// 0 ms maps to code 0, which disables the hold phase.
func HoldCode(ms int) byte {
	return byte(ms/holdStepMS) & 0x3F
}
