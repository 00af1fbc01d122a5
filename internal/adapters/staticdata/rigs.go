package staticdata

import (
	"strings"

	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
)

// Base rig effects before the security multiplier, keyed by lowercase rig
// name. Material/time values are percentages per run.
var rigEffects = map[string]struct {
	MaterialPercent float64
	TimePercent     float64
}{
	"standup m-set basic capital component manufacturing material efficiency i":  {MaterialPercent: 2.0},
	"standup m-set basic capital component manufacturing material efficiency ii": {MaterialPercent: 2.4},
	"standup m-set advanced component manufacturing material efficiency i":       {MaterialPercent: 2.0},
	"standup m-set advanced component manufacturing material efficiency ii":      {MaterialPercent: 2.4},
	"standup m-set ship manufacturing efficiency i":                              {MaterialPercent: 2.0},
	"standup m-set ship manufacturing efficiency ii":                             {MaterialPercent: 2.4},
	"standup m-set structure manufacturing material efficiency i":                {MaterialPercent: 2.0},
	"standup m-set blueprint copy accelerator i":                                 {TimePercent: 20.0},
	"standup m-set blueprint copy accelerator ii":                                {TimePercent: 24.0},
	"standup l-set reactor efficiency i":                                         {MaterialPercent: 2.0},
	"standup l-set reactor efficiency ii":                                        {MaterialPercent: 2.4},
	"standup m-set composite reactor material efficiency i":                      {MaterialPercent: 2.0},
	"standup m-set composite reactor material efficiency ii":                     {MaterialPercent: 2.4},
}

// RigBonus resolves a configured rig name and category into its base bonus
// line. Unknown rigs resolve to a zero-effect entry so a typo in config
// degrades the plan instead of failing it.
func RigBonus(name, itemCategory string) blueprint.RigBonus {
	effect := rigEffects[strings.ToLower(strings.TrimSpace(name))]
	return blueprint.RigBonus{
		Name:            name,
		ItemCategory:    itemCategory,
		MaterialPercent: effect.MaterialPercent,
		TimePercent:     effect.TimePercent,
	}
}
