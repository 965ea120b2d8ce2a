package wardenpasswordverifier

import (
	"strings"

	"go.inout.gg/foundations/must"

	"go.avresk.dev/warden/internal/sliceutil"
)

//nolint:gochecknoglobals
var DefaultPasswordRequiredChars PasswordRequiredChars

//nolint:gochecknoinits
func init() {
	must.Must1(DefaultPasswordRequiredChars.Parse(""))
}

// PasswordRequiredChars represents a list of character groups that are
// mandatory to be presented in the password, e.g. "abc...::0123456789".
type PasswordRequiredChars []string

func (s *PasswordRequiredChars) Parse(source string) error {
	parts := sliceutil.Filter(
		strings.Split(source, "::"),
		func(s string) bool { return len(s) > 0 },
	)

	*s = PasswordRequiredChars(parts)

	return nil
}
