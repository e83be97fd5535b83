// Package elements maps atomic numbers to element symbols and element
// symbols to display sizes.
//
// [Table] satisfies consensus.ElementTable, so graphs whose node labels are
// atomic numbers ("6", "8", ...) can be summarized with element symbols.
package elements

import "strconv"

// symbols holds element symbols indexed by atomic number - 1.
var symbols = [...]string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne", "Na", "Mg", "Al",
	"Si", "P", "S", "Cl", "Ar", "K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe",
	"Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y",
	"Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb",
	"Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd",
	"Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir",
	"Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac",
	"Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No",
	"Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl",
	"Mc", "Lv", "Ts", "Og",
}

// covalentRadii holds single-bond covalent radii in picometres for the
// elements that commonly appear in molecular graphs.
var covalentRadii = map[string]float64{
	"H": 31, "He": 28, "Li": 128, "Be": 96, "B": 84, "C": 76, "N": 71, "O": 66,
	"F": 57, "Ne": 58, "Na": 166, "Mg": 141, "Al": 121, "Si": 111, "P": 107,
	"S": 105, "Cl": 102, "Ar": 106, "K": 203, "Ca": 176, "Fe": 132, "Co": 126,
	"Ni": 124, "Cu": 132, "Zn": 122, "Se": 120, "Br": 120, "I": 139,
}

// Count is the number of known elements.
const Count = len(symbols)

// Symbol returns the element symbol for an atomic number given in decimal
// ("1" through "118"). Leading zeros, signs and whitespace are rejected so
// that only canonical labels translate.
func Symbol(number string) (string, bool) {
	n, err := strconv.Atoi(number)
	if err != nil || n < 1 || n > Count || strconv.Itoa(n) != number {
		return "", false
	}
	return symbols[n-1], true
}

// Size returns the covalent radius of an element in picometres.
func Size(symbol string) (float64, bool) {
	r, ok := covalentRadii[symbol]
	return r, ok
}

// Table is the atomic-number to element-symbol lookup.
// The zero value is ready to use.
type Table struct{}

// Lookup implements consensus.ElementTable.
func (Table) Lookup(label string) (string, bool) {
	return Symbol(label)
}
