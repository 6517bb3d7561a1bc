package decisions

import (
	"errors"
	"fmt"
	"strings"
)

// Disposition is a reviewer's verdict on one proposal.
type Disposition string

const (
	// Confirmed (Y): the traveler is the proposed roster person.
	Confirmed Disposition = "confirmed"
	// RejectedExpectMatch (NR): wrong match, but the traveler is an employee
	// who should be in the roster. Always blocks until the roster is fixed.
	RejectedExpectMatch Disposition = "rejected-expect-match"
	// RejectedNoMatch (NN): wrong match and the traveler is not an employee.
	RejectedNoMatch Disposition = "rejected-no-match"
)

// ErrUnrecognizedDisposition is returned for verdict cells other than Y, NR or NN.
var ErrUnrecognizedDisposition = errors.New("unrecognized disposition")

// ParseDisposition reads a verdict cell. A blank cell returns ok=false: the
// proposal has not been reviewed yet.
func ParseDisposition(raw string) (Disposition, bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", false, nil
	case "y":
		return Confirmed, true, nil
	case "nr":
		return RejectedExpectMatch, true, nil
	case "nn":
		return RejectedNoMatch, true, nil
	default:
		return "", false, fmt.Errorf("%w %q (expected Y, NR or NN)", ErrUnrecognizedDisposition, strings.TrimSpace(raw))
	}
}

// Code returns the verdict as written in review files.
func (d Disposition) Code() string {
	switch d {
	case Confirmed:
		return "Y"
	case RejectedExpectMatch:
		return "NR"
	case RejectedNoMatch:
		return "NN"
	default:
		return ""
	}
}
