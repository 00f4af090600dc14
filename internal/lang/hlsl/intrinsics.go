// Package hlsl implements the Language capability for High Level
// Shading Language: a scalar/vector/matrix/object intrinsic table and a
// tree-sitter query-driven symbol extractor.
package hlsl

import "github.com/shaderlang/shaderls/internal/symbol"

const scalarDocLink = "https://learn.microsoft.com/en-us/windows/win32/direct3dhlsl/dx-graphics-hlsl-scalar"

func newType(label, description, version string) symbol.Symbol {
	return symbol.Symbol{Label: label, Description: description, Version: version, Kind: symbol.KindType, Type: label, DocLink: scalarDocLink}
}

func newKeyword(label, description string) symbol.Symbol {
	return symbol.Symbol{Label: label, Description: description, Kind: symbol.KindKeyword}
}

func newFunction(label, returnType, description string, stages []symbol.Stage, params ...symbol.Parameter) symbol.Symbol {
	return symbol.Symbol{
		Label:       label,
		Description: description,
		Stages:      stages,
		Kind:        symbol.KindFunction,
		Signatures:  []symbol.Signature{{ReturnType: returnType, Parameters: params}},
	}
}

func p(ty, label string) symbol.Parameter { return symbol.Parameter{Type: ty, Label: label} }

// Intrinsics is a representative, non-exhaustive HLSL built-in table
// covering scalar/vector/matrix types, resource object types, common
// qualifiers, and a sample of stage-tagged intrinsic functions. Stage
// tags on compute-only intrinsics (numthreads-adjacent functions such as
// GroupMemoryBarrierWithGroupSync) record the stage each belongs to;
// nothing filters visibility by them.
func Intrinsics() symbol.SymbolTable {
	var table symbol.SymbolTable

	table.Add(newType("void", "no type", ""))
	table.Add(newType("bool", "true or false", ""))
	table.Add(newType("int", "32-bit signed integer", ""))
	table.Add(newType("uint", "32-bit unsigned integer", ""))
	table.Add(newType("half", "16-bit floating point value", ""))
	table.Add(newType("float", "32-bit floating point value", ""))
	table.Add(newType("double", "64-bit floating point value", ""))
	for _, n := range []string{"1", "2", "3", "4"} {
		table.Add(newType("float"+n, "vector of "+n+" floats", ""))
		table.Add(newType("int"+n, "vector of "+n+" ints", ""))
		table.Add(newType("uint"+n, "vector of "+n+" uints", ""))
	}
	for _, r := range []string{"1", "2", "3", "4"} {
		for _, c := range []string{"1", "2", "3", "4"} {
			table.Add(newType("float"+r+"x"+c, "matrix of "+r+" rows, "+c+" columns of floats", ""))
		}
	}
	table.Add(newType("Texture2D", "a 2D texture resource", ""))
	table.Add(newType("Texture2DArray", "an array of 2D texture resources", ""))
	table.Add(newType("TextureCube", "a cube texture resource", ""))
	table.Add(newType("RWBuffer", "a read/write buffer", ""))
	table.Add(newType("RWStructuredBuffer", "a read/write structured buffer", ""))
	table.Add(newType("SamplerState", "a sampler state resource", ""))
	table.Add(newType("ConstantBuffer", "a constant buffer resource", ""))

	table.Add(newKeyword("cbuffer", "Declare a constant buffer"))
	table.Add(newKeyword("register", "Bind a resource to a shader register"))
	table.Add(newKeyword("groupshared", "Declare memory shared across a thread group"))
	table.Add(newKeyword("numthreads", "Declare the thread group dimensions of a compute shader"))
	table.Add(newKeyword("in", "Mark a function parameter as an input"))
	table.Add(newKeyword("out", "Mark a function parameter as an output"))
	table.Add(newKeyword("inout", "Mark a function parameter as both an input and output"))

	allStages := []symbol.Stage{"vertex", "fragment", "compute", "geometry", "hull", "domain"}
	table.Add(newFunction("saturate", "float", "Clamps x to the range [0, 1]", allStages, p("float", "x")))
	table.Add(newFunction("lerp", "float", "Linearly interpolates between x and y", allStages, p("float", "x"), p("float", "y"), p("float", "s")))
	table.Add(newFunction("mul", "float4", "Performs matrix multiplication", allStages, p("float4x4", "a"), p("float4", "b")))
	table.Add(newFunction("normalize", "float3", "Normalizes a vector", allStages, p("float3", "x")))
	table.Add(newFunction("dot", "float", "Dot product of two vectors", allStages, p("float3", "x"), p("float3", "y")))
	table.Add(newFunction("frac", "float", "Returns the fractional part of x", allStages, p("float", "x")))
	table.Add(newFunction("rsqrt", "float", "Returns 1 / sqrt(x)", allStages, p("float", "x")))
	table.Add(newFunction("GroupMemoryBarrierWithGroupSync", "void",
		"Blocks execution until all threads in a group reach this call and all group shared memory accesses are complete",
		[]symbol.Stage{"compute"}))
	table.Add(newFunction("InterlockedAdd", "void", "Atomically adds value to dest", []symbol.Stage{"compute"}, p("uint", "dest"), p("uint", "value")))

	return table
}
