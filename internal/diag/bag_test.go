package diag

import (
	"testing"

	"quanta/internal/source"
)

func TestBagLimitAndSeverity(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, WsUnknownRegister, source.Span{}, "w").Emit()
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("HasErrors=%v HasWarnings=%v", bag.HasErrors(), bag.HasWarnings())
	}
	ReportError(r, WsUnknownInstr, source.Span{}, "e").Emit()
	if !bag.Add(NewError(WsMalformedXML, source.Span{}, "over")) {
		if bag.Len() != 2 {
			t.Errorf("Len = %d, want 2", bag.Len())
		}
	} else {
		t.Errorf("Add beyond limit succeeded")
	}
	if !bag.HasErrors() {
		t.Errorf("HasErrors = false")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, GenMissingAlias, source.Span{}, "missing").
		WithNote(source.Span{Start: 1, End: 2}, "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	if got := bag.Items()[0]; len(got.Notes) != 1 || got.Notes[0].Msg != "here" {
		t.Errorf("notes = %+v", got.Notes)
	}
}

func TestSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(WsUnknownInstr, source.Span{File: 1, Start: 5, End: 6}, "b"))
	bag.Add(New(SevWarning, WsUnknownRegister, source.Span{File: 0, Start: 9, End: 9}, "a"))
	bag.Add(NewError(WsUnknownInstr, source.Span{File: 1, Start: 5, End: 6}, "b"))
	bag.Add(NewError(WsMalformedXML, source.Span{File: 0, Start: 9, End: 9}, "c"))
	bag.Dedup()
	bag.Sort()
	got := bag.Items()
	if len(got) != 3 {
		t.Fatalf("Len after dedup = %d, want 3", len(got))
	}
	if got[0].Code != WsMalformedXML || got[1].Code != WsUnknownRegister || got[2].Code != WsUnknownInstr {
		t.Errorf("order = %v, %v, %v", got[0].Code, got[1].Code, got[2].Code)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		WsUnknownBlockType: "WS1002",
		TreeCycle:          "TREE2001",
		GenMissingAlias:    "GEN3001",
		IOReadFailed:       "IO4001",
		PrjManifestBroken:  "PRJ5001",
		UnknownCode:        "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if GenMissingAlias.String() != "[GEN3001]: Instruction has no mnemonic alias" {
		t.Errorf("String() = %q", GenMissingAlias.String())
	}
}
