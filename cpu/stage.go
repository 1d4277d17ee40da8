package cpu

import (
	"fmt"
)

// Stage is an instruction cycle stage.
type Stage int

const (
	STAGE_IDLE      = Stage(0) // idle
	STAGE_FETCH     = Stage(1) // fetch
	STAGE_DECODE    = Stage(2) // decode
	STAGE_EXECUTE   = Stage(3) // execute
	STAGE_WRITEBACK = Stage(4) // writeback
)

var stageNames = [...]string{"idle", "fetch", "decode", "execute", "writeback"}

func (stage Stage) String() string {
	if stage < 0 || int(stage) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(stage))
	}
	return stageNames[stage]
}

// Next returns the stage that follows in the cycle.
func (stage Stage) Next() Stage {
	if stage == STAGE_WRITEBACK {
		return STAGE_IDLE
	}
	return stage + 1
}

// StageFunc is called on every stage transition, with the new stage and the
// instruction in flight. It is the place for presentation delays.
type StageFunc func(stage Stage, inst Instruction)
