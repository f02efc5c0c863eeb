package scriptconfig

import "errors"

var (
	errDependencyEmpty     = errors.New("dependency must set either task or command")
	errDependencyAmbiguous = errors.New("dependency must not set both task and command")
)
