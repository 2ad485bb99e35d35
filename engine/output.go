package engine

type (
	// Output is an event emitted by the engine reducer, in the order the
	// underlying state changes happened. Consumers that render audio read
	// voice state off the engine directly; outputs only carry lifecycle.
	Output interface{ output() }

	VoiceStart struct {
		VoiceID  int
		Note     int
		Velocity int
	}

	VoiceEnd struct {
		VoiceID int
		Note    int
	}

	// VoiceStolen reports a voice that was forcibly retired to make room
	// for ByNote under the polyphony limit.
	VoiceStolen struct {
		VoiceID int
		Note    int
		ByNote  int
	}

	// VoiceChoked reports a voice that was put into its choke fade
	// because ByPad triggered in the same choke group.
	VoiceChoked struct {
		VoiceID int
		Note    int
		ByPad   int
	}

	ArticulationChanged struct {
		Name string
	}

	PresetLoaded struct {
		ID string
	}

	Error struct {
		Message string
	}
)

func (VoiceStart) output()          {}
func (VoiceEnd) output()            {}
func (VoiceStolen) output()         {}
func (VoiceChoked) output()         {}
func (ArticulationChanged) output() {}
func (PresetLoaded) output()        {}
func (Error) output()               {}
