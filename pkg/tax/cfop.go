package tax

import "strings"

// ForeignJurisdiction is the conventional code for a destination abroad.
const ForeignJurisdiction = "EX"

var brazilianStates = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// IsBrazilianState reports whether code is one of the 27 federative units.
func IsBrazilianState(code string) bool {
	_, ok := brazilianStates[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// ExpectedCFOPPrefix returns the leading digit an outgoing CFOP must carry for
// the given jurisdictions: 5 within a state, 6 between states and 7 abroad.
func ExpectedCFOPPrefix(origin, destination string) byte {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	switch {
	case !IsBrazilianState(origin) || !IsBrazilianState(destination):
		return '7'
	case origin == destination:
		return '5'
	default:
		return '6'
	}
}

// ValidateCFOP checks the numeric range of a 4-digit CFOP against the
// operation's jurisdictions. The operation kind is accepted for signature
// stability but is not cross-checked against the code.
func ValidateCFOP(code string, operation OperationKind, origin, destination string) bool {
	_ = operation

	code = strings.TrimSpace(code)
	if len(code) != 4 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return code[0] == ExpectedCFOPPrefix(origin, destination)
}
