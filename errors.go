package river

import "strings"

// unitErrors wraps errors reported by multiple units or streamlets.
type unitErrors []error

func (e unitErrors) Error() string {
	s := make([]string, 0, len(e))
	for _, se := range e {
		s = append(s, se.Error())
	}
	return strings.Join(s, ",")
}

// Unwrap allows errors.Is and errors.As to inspect every wrapped error.
func (e unitErrors) Unwrap() []error {
	return e
}

// ret returns untyped nil if error list is empty.
func (e unitErrors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}
