// cmd/deflector/report.go
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/tamzrod/deflector-control/internal/deflector"
	"github.com/tamzrod/deflector-control/internal/status"
)

func printStatus(w io.Writer, label string, st status.Deflector) {
	fmt.Fprintf(w, "%-7s AUTO=%t MANUAL=%t mode=%s\n", label+":", st.Auto, st.Manual, st.Mode())
}

func printUnavailable(w io.Writer, label string, err error) {
	fmt.Fprintf(w, "%-7s unavailable: %v\n", label+":", err)
}

// printOutcome prints "<op>: <outcome>" plus the error when there is one.
func printOutcome(w io.Writer, op string, err error) {
	outcome := deflector.OutcomeOf(err)
	if err == nil {
		fmt.Fprintf(w, "%s: %s\n", op, outcome)
		return
	}
	fmt.Fprintf(w, "%s: %s: %v\n", op, outcome, err)
	switch outcome {
	case status.OutcomePartial:
		fmt.Fprintln(w, "warning: deflector may be in an inconsistent state, check both coils")
	case status.OutcomeStuck:
		fmt.Fprintln(w, "warning: coil was pressed and not released, clear it manually")
	}
}

func printVerify(w io.Writer, want status.Mode, got status.Deflector, err error) {
	var ve *deflector.VerifyError
	switch {
	case err == nil:
		printStatus(w, "after", got)
		fmt.Fprintf(w, "verified: deflector is in %s mode\n", want)
	case errors.As(err, &ve):
		printStatus(w, "after", got)
		fmt.Fprintf(w, "warning: expected %s, PLC logic may be overriding the command\n", want)
	default:
		printUnavailable(w, "after", err)
		fmt.Fprintln(w, "warning: could not verify the mode change")
	}
}
