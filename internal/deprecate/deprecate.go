// Package deprecate is the compatibility layer for legacy call shapes.
// Every deprecated method alias and renamed argument routes through here,
// so dropping legacy support is a single-package deletion.
package deprecate

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Warn emits a deprecation warning for a method or function. The
// alternative may be empty when there is no replacement.
func Warn(name string, since string, alternative string) {
	entry := logrus.WithFields(logrus.Fields{
		"deprecated": name,
		"since":      since,
	})

	if len(alternative) > 0 {
		entry.Warnf("%s is deprecated, use %s instead", name, alternative)
		return
	}

	entry.Warnf("%s is deprecated and will be removed in a future release", name)
}

// WarnMessage emits a deprecation warning with a caller-supplied message.
func WarnMessage(name string, since string, format string, args ...any) {
	logrus.WithFields(logrus.Fields{
		"deprecated": name,
		"since":      since,
	}).Warn(fmt.Sprintf(format, args...))
}

// WarnArgument emits a warning for a renamed or superseded argument.
// When both the legacy and the current argument are supplied the current
// one always wins; callers use ignored=true to signal that case.
func WarnArgument(legacy string, current string, ignored bool) {
	entry := logrus.WithFields(logrus.Fields{
		"deprecated": legacy,
		"argument":   current,
	})

	if ignored {
		entry.Warnf("argument %q has been deprecated, will be ignored in favor of %q", legacy, current)
		return
	}

	entry.Warnf("argument %q has been deprecated and will be removed in the future, use %q instead", legacy, current)
}
