package audio

type stage int

const (
	stageIdle stage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// envelope is a linear ADSR envelope advanced once per frame. Times are in
// seconds, sustain is a level.
type envelope struct {
	attack  float64
	decay   float64
	sustain float64
	release float64

	level float64
	step  float64 // per-frame change during the current stage
	stage stage
}

// next advances the envelope by one frame and returns its level.
func (e *envelope) next() float64 {
	switch e.stage {
	case stageAttack:
		e.level += e.step
		if e.level >= 1 {
			e.level = 1
			e.enterDecay()
		}
	case stageDecay:
		e.level -= e.step
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = stageSustain
		}
	case stageSustain:
		e.level = e.sustain
		if e.sustain == 0 {
			e.stage = stageIdle
		}
	case stageRelease:
		e.level -= e.step
		if e.level <= 0 {
			e.level = 0
			e.stage = stageIdle
		}
	}
	return e.level
}

func (e *envelope) idle() bool { return e.stage == stageIdle }

// gateOn restarts the envelope from silence.
func (e *envelope) gateOn() {
	e.level = 0
	e.stage = stageAttack
	e.step = perFrame(1, e.attack)
}

func (e *envelope) enterDecay() {
	if e.sustain >= 1 {
		e.stage = stageSustain
		return
	}
	e.stage = stageDecay
	e.step = perFrame(1-e.sustain, e.decay)
}

// gateOff fades out from the current level. An idle envelope stays idle.
func (e *envelope) gateOff() {
	if e.idle() {
		return
	}
	e.stage = stageRelease
	e.step = perFrame(e.level, e.release)
}

// perFrame is the step that covers distance in the given number of
// seconds. Zero-length stages complete in a single frame.
func perFrame(distance, seconds float64) float64 {
	frames := seconds * SampleRate
	if frames < 1 {
		frames = 1
	}
	return distance / frames
}
