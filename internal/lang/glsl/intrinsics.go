// Package glsl implements the Language capability for OpenGL Shading
// Language: a scalar/vector/matrix/sampler intrinsic table and a
// tree-sitter query-driven symbol extractor.
package glsl

import "github.com/shaderlang/shaderls/internal/symbol"

func newType(label, description, version string) symbol.Symbol {
	return symbol.Symbol{Label: label, Description: description, Version: version, Kind: symbol.KindType, Type: label}
}

func newKeyword(label, description string) symbol.Symbol {
	return symbol.Symbol{
		Label:       label,
		Description: description,
		Kind:        symbol.KindKeyword,
		DocLink:     "https://www.khronos.org/opengl/wiki/Type_Qualifier_(GLSL)",
	}
}

func newFunction(label, returnType, description string, params ...symbol.Parameter) symbol.Symbol {
	return symbol.Symbol{
		Label:       label,
		Description: description,
		Kind:        symbol.KindFunction,
		Signatures: []symbol.Signature{{
			ReturnType: returnType,
			Parameters: params,
		}},
	}
}

func p(ty, label string) symbol.Parameter { return symbol.Parameter{Type: ty, Label: label} }

// Intrinsics is a representative, deliberately non-exhaustive GLSL
// built-in table (scalar/vector/matrix types, common qualifiers, and a
// sample of the trigonometric/geometric built-in function families) —
// the full Khronos reference runs into the hundreds of entries.
func Intrinsics() symbol.SymbolTable {
	var table symbol.SymbolTable

	table.Add(newType("void", "no type", "110"))
	table.Add(newType("bool", "conditional type, values may be either true or false", "110"))
	table.Add(newType("int", "a signed, two's complement, 32-bit integer", "110"))
	table.Add(newType("uint", "an unsigned 32-bit integer", "110"))
	table.Add(newType("float", "an IEEE-754 single-precision floating point number", "110"))
	table.Add(newType("double", "an IEEE-754 double-precision floating-point number", "110"))
	for _, n := range []string{"2", "3", "4"} {
		table.Add(newType("bvec"+n, "vector of "+n+" booleans", "110"))
		table.Add(newType("ivec"+n, "vector of "+n+" signed integers", "110"))
		table.Add(newType("uvec"+n, "vector of "+n+" unsigned integers", "110"))
		table.Add(newType("vec"+n, "vector of "+n+" floats", "110"))
		table.Add(newType("dvec"+n, "vector of "+n+" doubles", "110"))
	}
	for _, n := range []string{"2", "3", "4"} {
		table.Add(newType("mat"+n, "matrix with "+n+" columns and "+n+" rows of floats", "110"))
	}
	table.Add(newType("sampler2D", "a handle for a 2D texture", "110"))
	table.Add(newType("samplerCube", "a handle for a cube mapped texture", "110"))

	table.Add(newKeyword("uniform", "Declare a uniform variable"))
	table.Add(newKeyword("layout", ""))
	table.Add(newKeyword("const", "constant qualifier"))
	table.Add(newKeyword("struct", ""))
	table.Add(newKeyword("in", "Mark a function parameter as an input"))
	table.Add(newKeyword("out", "Mark a function parameter as an output"))
	table.Add(newKeyword("inout", "Mark a function parameter as both an input and output"))
	table.Add(newKeyword("flat", "The value will not be interpolated across the primitive"))
	table.Add(newKeyword("varying", "Interface variable between vertex and fragment stages (pre-3.30)"))
	table.Add(newKeyword("precision", "Sets the default precision for a type"))

	table.Add(newFunction("radians", "float", "Converts degrees to radians", p("float", "degrees")))
	table.Add(newFunction("sin", "float", "The standard trigonometric sine function", p("float", "angle")))
	table.Add(newFunction("cos", "float", "The standard trigonometric cosine function", p("float", "angle")))
	table.Add(newFunction("pow", "float", "Returns x raised to the power of y", p("float", "x"), p("float", "y")))
	table.Add(newFunction("sqrt", "float", "Returns the square root of x", p("float", "x")))
	table.Add(newFunction("abs", "float", "Returns the absolute value of x", p("float", "x")))
	table.Add(newFunction("min", "float", "Returns the lesser of x and y", p("float", "x"), p("float", "y")))
	table.Add(newFunction("max", "float", "Returns the greater of x and y", p("float", "x"), p("float", "y")))
	table.Add(newFunction("clamp", "float", "Constrains x to lie between minVal and maxVal", p("float", "x"), p("float", "minVal"), p("float", "maxVal")))
	table.Add(newFunction("mix", "float", "Linearly interpolates between x and y", p("float", "x"), p("float", "y"), p("float", "a")))
	table.Add(newFunction("normalize", "vec3", "Returns a vector with the same direction as v but length 1", p("vec3", "v")))
	table.Add(newFunction("dot", "float", "Returns the dot product of x and y", p("vec3", "x"), p("vec3", "y")))
	table.Add(newFunction("cross", "vec3", "Returns the cross product of x and y", p("vec3", "x"), p("vec3", "y")))
	table.Add(newFunction("length", "float", "Returns the length of vector v", p("vec3", "v")))
	table.Add(newFunction("texture", "vec4", "Samples texels from a texture", p("sampler2D", "sampler"), p("vec2", "P")))

	return table
}
