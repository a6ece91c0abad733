// Package pipeline builds the service image, publishes it to ECR and rolls it
// out to an ECS service, stopping at the first failing step.
package pipeline

// State is a point in the delivery lifecycle.
type State int

const (
	Triggered State = iota
	CheckedOut
	AuthenticatedToRegistry
	ImageBuilt
	ImageTagged
	ImagePushed
	DeploymentUpdated
	Stabilized
	Failed
)

var stateNames = [...]string{
	Triggered:               "triggered",
	CheckedOut:              "checked-out",
	AuthenticatedToRegistry: "authenticated-to-registry",
	ImageBuilt:              "image-built",
	ImageTagged:             "image-tagged",
	ImagePushed:             "image-pushed",
	DeploymentUpdated:       "deployment-updated",
	Stabilized:              "stabilized",
	Failed:                  "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Stabilized || s == Failed
}
