package wasm

import "testing"

func TestTypeInternerAssignsSameIDToEqualSignatures(t *testing.T) {
	ti := NewTypeInterner()
	a := &FunctionType{Params: []ValType{ValTypeI32}, Results: []ValType{ValTypeI32}}
	b := &FunctionType{Params: []ValType{ValTypeI32}, Results: []ValType{ValTypeI32}}
	if a == b {
		t.Fatal("test setup error: a and b must be distinct pointers")
	}
	if ti.Intern(a) != ti.Intern(b) {
		t.Fatal("structurally equal FunctionTypes must intern to the same ID")
	}
}

func TestTypeInternerAssignsDistinctIDsToDifferentSignatures(t *testing.T) {
	ti := NewTypeInterner()
	a := &FunctionType{Params: []ValType{ValTypeI32}}
	b := &FunctionType{Params: []ValType{ValTypeI64}}
	if ti.Intern(a) == ti.Intern(b) {
		t.Fatal("distinct signatures must not share an interned ID")
	}
}

func TestTypeInternerIsStableAcrossRepeatedCalls(t *testing.T) {
	ti := NewTypeInterner()
	ft := &FunctionType{Results: []ValType{ValTypeF64}}
	first := ti.Intern(ft)
	for i := 0; i < 5; i++ {
		if ti.Intern(ft) != first {
			t.Fatal("repeated interning of the same type must return the same ID")
		}
	}
}

func TestTypeInternerAssignsSequentialIDsToNovelSignatures(t *testing.T) {
	ti := NewTypeInterner()
	ids := make(map[uint32]bool)
	sigs := []*FunctionType{
		{},
		{Params: []ValType{ValTypeI32}},
		{Params: []ValType{ValTypeI64}},
		{Results: []ValType{ValTypeF32}},
	}
	for i, s := range sigs {
		id := ti.Intern(s)
		if ids[id] {
			t.Fatalf("ID %d reused across distinct signatures", id)
		}
		if id != uint32(i) {
			t.Fatalf("signature %d got ID %d, want %d", i, id, i)
		}
		ids[id] = true
	}
}
