package fields

import (
	"encoding/json"
	"os"
	"reflect"
	"testing"

	"situation-analyzer/internal/docintel"
)

func loadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

func loadDocument(t *testing.T) docintel.Document {
	t.Helper()
	var result docintel.AnalyzeResult
	if err := json.Unmarshal(loadFixture(t, "testdata/situation_result.json"), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(result.Documents) == 0 {
		t.Fatalf("fixture has no documents")
	}
	return result.Documents[0]
}

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func str(v string) *string   { return &v }
func num(v float64) *float64 { return &v }

func cell(value string, conf float64) docintel.Field {
	return docintel.Field{Type: docintel.FieldTypeString, ValueString: str(value), Confidence: num(conf)}
}

func row(cells map[string]docintel.Field) docintel.Field {
	return docintel.Field{Type: docintel.FieldTypeObject, ValueObject: cells}
}

func TestBuildMatchesGolden(t *testing.T) {
	doc := loadDocument(t)

	got := toMap(t, Build(doc, PolicyZero))

	var want map[string]any
	if err := json.Unmarshal(loadFixture(t, "testdata/situation_expected.json"), &want); err != nil {
		t.Fatalf("unmarshal expected: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for key, wantVal := range want {
		gotVal, ok := got[key]
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if !reflect.DeepEqual(gotVal, wantVal) {
			t.Fatalf("%s: got %v, want %v", key, gotVal, wantVal)
		}
	}
}

func TestLastRowSelection(t *testing.T) {
	last := row(map[string]docintel.Field{
		"actuel":    cell("12 500,00", 0.91),
		"precedent": cell("10 000,00", 0.92),
		"mensuel":   cell("2 500,00", 0.93),
	})
	earlier := row(map[string]docintel.Field{
		"actuel":    cell("1,00", 0.1),
		"precedent": cell("2,00", 0.2),
		"mensuel":   cell("3,00", 0.3),
	})

	single := map[string]docintel.Field{
		FieldAppro: {Type: docintel.FieldTypeArray, ValueArray: []docintel.Field{last}},
	}
	three := map[string]docintel.Field{
		FieldAppro: {Type: docintel.FieldTypeArray, ValueArray: []docintel.Field{earlier, earlier, last}},
	}

	one := ReadColumns(single, FieldAppro, LastRow)
	many := ReadColumns(three, FieldAppro, LastRow)
	if !reflect.DeepEqual(one, many) {
		t.Fatalf("expected N=1 and N=3 to select the same row: %+v vs %+v", one, many)
	}
	if *many.Actuel.Value != 12500 || *many.Precedent.Value != 10000 || *many.Mensuel.Value != 2500 {
		t.Fatalf("unexpected values: %+v", many)
	}
	if *many.Mensuel.Confidence != 0.93 {
		t.Fatalf("unexpected confidence: %v", *many.Mensuel.Confidence)
	}
}

func TestTotalDPPositionalRows(t *testing.T) {
	mk := func(v string) docintel.Field {
		return row(map[string]docintel.Field{"actuel": cell(v, 0.9)})
	}
	doc := docintel.Document{Fields: map[string]docintel.Field{
		FieldTotalDP: {Type: docintel.FieldTypeArray, ValueArray: []docintel.Field{mk("100,00"), mk("20,00"), mk("120,00")}},
	}}

	resp := Build(doc, PolicyZero)
	if resp.TotalHTActuel != 100.0 {
		t.Fatalf("total_ht_actuel: got %v", resp.TotalHTActuel)
	}
	if resp.TVAActuel != 20.0 {
		t.Fatalf("tva_actuel: got %v", resp.TVAActuel)
	}
	if resp.MontantDuActuel != 120.0 {
		t.Fatalf("montant_du_actuel must come from row 2, got %v", resp.MontantDuActuel)
	}
}

func TestBuildEmptyDocumentUsesDefaults(t *testing.T) {
	resp := Build(docintel.Document{}, PolicyZero)
	m := toMap(t, resp)

	for key, val := range m {
		switch key {
		case "docType":
			if val != "" {
				t.Fatalf("docType: got %v", val)
			}
		case "chantier", "maitre_ouvrage", "lot", "sstraitant", "numdp", "date_dp":
			if val != NotAvailable {
				t.Fatalf("%s: got %v, want N/A", key, val)
			}
		default:
			if val != 0.0 {
				t.Fatalf("%s: got %v, want 0", key, val)
			}
		}
	}
}

func TestBuildNAPolicy(t *testing.T) {
	doc := docintel.Document{Fields: map[string]docintel.Field{
		FieldAppro: {Type: docintel.FieldTypeArray, ValueArray: []docintel.Field{
			row(map[string]docintel.Field{"actuel": cell("0,00", 0.64)}),
		}},
	}}

	resp := Build(doc, PolicyNA)
	if resp.Confidence != NotAvailable {
		t.Fatalf("confidence: got %v", resp.Confidence)
	}
	if resp.ApproActuelTTC != 0.0 {
		t.Fatalf("present zero must stay 0, got %v", resp.ApproActuelTTC)
	}
	if resp.ApproActuelTTCConfidence != 0.64 {
		t.Fatalf("confidence passthrough: got %v", resp.ApproActuelTTCConfidence)
	}
	if resp.ApproPrecedentTTC != NotAvailable || resp.ApproPrecedentTTCConfidence != NotAvailable {
		t.Fatalf("absent column: got %v / %v", resp.ApproPrecedentTTC, resp.ApproPrecedentTTCConfidence)
	}
	if resp.MontantRetenuesMensuelConfidence != NotAvailable {
		t.Fatalf("retenues mensuel confidence: got %v", resp.MontantRetenuesMensuelConfidence)
	}
}

func TestExtractAmountKeepsConfidenceWithoutValue(t *testing.T) {
	fields := map[string]docintel.Field{
		"retenues": {ValueArray: []docintel.Field{
			row(map[string]docintel.Field{"CUMUL ACTUEL": {Confidence: num(0.42)}}),
		}},
	}
	got := ExtractAmount(fields, Cell("retenues", LastRow, ColumnActuel...))
	if got.Value != nil {
		t.Fatalf("expected absent value, got %v", *got.Value)
	}
	if got.Confidence == nil || *got.Confidence != 0.42 {
		t.Fatalf("expected confidence 0.42, got %v", got.Confidence)
	}
}

func TestExtractAmountFallsBackToValueNumber(t *testing.T) {
	fields := map[string]docintel.Field{
		"total_dp": {ValueArray: []docintel.Field{
			row(map[string]docintel.Field{"actuel": {Type: docintel.FieldTypeNumber, ValueNumber: num(812.4), Confidence: num(0.8)}}),
		}},
	}
	got := ExtractAmount(fields, Cell("total_dp", 0, ColumnActuel...))
	if got.Value == nil || *got.Value != 812.4 {
		t.Fatalf("expected 812.4, got %v", got.Value)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	fields := map[string]docintel.Field{
		"total_dp": {ValueArray: []docintel.Field{row(nil)}},
		"appro":    {ValueArray: nil},
	}
	if _, ok := Lookup(fields, Cell("total_dp", 2, "actuel")); ok {
		t.Fatalf("expected missing row 2")
	}
	if _, ok := Lookup(fields, Cell("appro", LastRow, "actuel")); ok {
		t.Fatalf("expected missing last row on empty array")
	}
	if _, ok := Lookup(fields, Scalar("chantier")); ok {
		t.Fatalf("expected missing scalar")
	}
}

func TestExtractTextEmptyIsAbsent(t *testing.T) {
	fields := map[string]docintel.Field{
		"lot": {ValueString: str(""), Confidence: num(0.3)},
	}
	got := ExtractText(fields, Scalar("lot"))
	if got.Value != nil {
		t.Fatalf("expected empty string to be absent")
	}
	if got.Confidence == nil || *got.Confidence != 0.3 {
		t.Fatalf("expected confidence 0.3")
	}
}

func TestLookupPrefersColumnWithValue(t *testing.T) {
	fields := map[string]docintel.Field{
		"retenues": {ValueArray: []docintel.Field{
			row(map[string]docintel.Field{
				"actuel":       {Confidence: num(0.2)},
				"CUMUL ACTUEL": cell("1 250,50", 0.88),
			}),
		}},
	}
	got := ExtractAmount(fields, Cell("retenues", LastRow, ColumnActuel...))
	if got.Value == nil || *got.Value != 1250.5 {
		t.Fatalf("expected 1250.5 from the populated column, got %v", got.Value)
	}
	if *got.Confidence != 0.88 {
		t.Fatalf("expected confidence of the populated column, got %v", *got.Confidence)
	}

	empty := map[string]docintel.Field{
		"retenues": {ValueArray: []docintel.Field{
			row(map[string]docintel.Field{"actuel": {Confidence: num(0.2)}}),
		}},
	}
	got = ExtractAmount(empty, Cell("retenues", LastRow, ColumnActuel...))
	if got.Value != nil || got.Confidence == nil || *got.Confidence != 0.2 {
		t.Fatalf("expected empty cell confidence only, got %+v", got)
	}
}
