package fields

import "situation-analyzer/internal/docintel"

// Source field names produced by the custom model.
const (
	FieldChantier           = "chantier"
	FieldMaitreOuvrage      = "maitre_ouvrage"
	FieldLot                = "lot"
	FieldSousTraitant       = "sstraitant"
	FieldNumero             = "numero"
	FieldDateDP             = "date_dp"
	FieldAppro              = "appro"
	FieldTravaux            = "travaux"
	FieldRetenues           = "retenues"
	FieldLiberationRetenues = "liberation_retenues"
	FieldTotalDP            = "total_dp"
)

// Rows of total_dp, in document order.
const (
	TotalDPRowTotalHT  Row = 0
	TotalDPRowTVA      Row = 1
	TotalDPRowMontantD Row = 2
)

// Column keys, plain label first then the cumulative header label.
var (
	ColumnActuel    = []string{"actuel", "CUMUL ACTUEL"}
	ColumnPrecedent = []string{"precedent", "CUMUL PRECEDENT"}
	ColumnMensuel   = []string{"mensuel", "MENSUEL REALISE"}
)

// Response is the flat payload returned for one analyzed situation.
// Amount and confidence members hold a float64, or the policy placeholder.
type Response struct {
	DocType    string `json:"docType"`
	Confidence any    `json:"confidence"`

	Chantier                string `json:"chantier"`
	ChantierConfidence      any    `json:"chantier_confidence"`
	MaitreOuvrage           string `json:"maitre_ouvrage"`
	MaitreOuvrageConfidence any    `json:"maitre_ouvrage_confidence"`
	Lot                     string `json:"lot"`
	LotConfidence           any    `json:"lot_confidence"`
	SousTraitant            string `json:"sstraitant"`
	SousTraitantConfidence  any    `json:"sstraitant_confidence"`
	NumDP                   string `json:"numdp"`
	NumDPConfidence         any    `json:"numdp_confidence"`
	DateDP                  string `json:"date_dp"`
	DateDPConfidence        any    `json:"date_dp_confidence"`

	ApproActuelTTC              any `json:"appro_actuel_ttc"`
	ApproActuelTTCConfidence    any `json:"appro_actuel_ttc_confidence"`
	ApproPrecedentTTC           any `json:"appro_precedent_ttc"`
	ApproPrecedentTTCConfidence any `json:"appro_precedent_ttc_confidence"`
	ApproMensuelTTC             any `json:"appro_mensuel_ttc"`
	ApproMensuelTTCConfidence   any `json:"appro_mensuel_ttc_confidence"`

	MontantTravauxActuel              any `json:"montant_travaux_actuel"`
	MontantTravauxActuelConfidence    any `json:"montant_travaux_actuel_confidence"`
	MontantTravauxPrecedent           any `json:"montant_travaux_precedent"`
	MontantTravauxPrecedentConfidence any `json:"montant_travaux_precedent_confidence"`
	MontantTravauxMensuel             any `json:"montant_travaux_mensuel"`
	MontantTravauxMensuelConfidence   any `json:"montant_travaux_mensuel_confidence"`

	MontantRetenuesActuel              any `json:"montant_retenues_actuel"`
	MontantRetenuesActuelConfidence    any `json:"montant_retenues_actuel_confidence"`
	MontantRetenuesPrecedent           any `json:"montant_retenues_precedent"`
	MontantRetenuesPrecedentConfidence any `json:"montant_retenues_precedent_confidence"`
	MontantRetenuesMensuel             any `json:"montant_retenues_mensuel"`
	MontantRetenuesMensuelConfidence   any `json:"montant_retenues_mensuel_confidence"`

	MontantLibRetenuesActuel              any `json:"montant_libretenues_actuel"`
	MontantLibRetenuesActuelConfidence    any `json:"montant_libretenues_actuel_confidence"`
	MontantLibRetenuesPrecedent           any `json:"montant_libretenues_precedent"`
	MontantLibRetenuesPrecedentConfidence any `json:"montant_libretenues_precedent_confidence"`
	MontantLibRetenuesMensuel             any `json:"montant_libretenues_mensuel"`
	MontantLibRetenuesMensuelConfidence   any `json:"montant_libretenues_mensuel_confidence"`

	TotalHTActuel              any `json:"total_ht_actuel"`
	TotalHTActuelConfidence    any `json:"total_ht_actuel_confidence"`
	TotalHTPrecedent           any `json:"total_ht_precedent"`
	TotalHTPrecedentConfidence any `json:"total_ht_precedent_confidence"`
	TotalHTMensuel             any `json:"total_ht_mensuel"`
	TotalHTMensuelConfidence   any `json:"total_ht_mensuel_confidence"`

	TVAActuel              any `json:"tva_actuel"`
	TVAActuelConfidence    any `json:"tva_actuel_confidence"`
	TVAPrecedent           any `json:"tva_precedent"`
	TVAPrecedentConfidence any `json:"tva_precedent_confidence"`
	TVAMensuel             any `json:"tva_mensuel"`
	TVAMensuelConfidence   any `json:"tva_mensuel_confidence"`

	MontantDuActuel              any `json:"montant_du_actuel"`
	MontantDuActuelConfidence    any `json:"montant_du_actuel_confidence"`
	MontantDuPrecedent           any `json:"montant_du_precedent"`
	MontantDuPrecedentConfidence any `json:"montant_du_precedent_confidence"`
	MontantDuMensuel             any `json:"montant_du_mensuel"`
	MontantDuMensuelConfidence   any `json:"montant_du_mensuel_confidence"`
}

// Columns holds the three cumulative columns of one table row.
type Columns struct {
	Actuel    Extracted
	Precedent Extracted
	Mensuel   Extracted
}

// ReadColumns extracts actuel, precedent and mensuel from one row of name.
func ReadColumns(fields map[string]docintel.Field, name string, row Row) Columns {
	return Columns{
		Actuel:    ExtractAmount(fields, Cell(name, row, ColumnActuel...)),
		Precedent: ExtractAmount(fields, Cell(name, row, ColumnPrecedent...)),
		Mensuel:   ExtractAmount(fields, Cell(name, row, ColumnMensuel...)),
	}
}

// Build flattens doc into a Response using policy p for absent values.
func Build(doc docintel.Document, p Policy) Response {
	f := doc.Fields

	chantier := ExtractText(f, Scalar(FieldChantier))
	maitre := ExtractText(f, Scalar(FieldMaitreOuvrage))
	lot := ExtractText(f, Scalar(FieldLot))
	sst := ExtractText(f, Scalar(FieldSousTraitant))
	numero := ExtractText(f, Scalar(FieldNumero))
	date := ExtractText(f, Scalar(FieldDateDP))

	appro := ReadColumns(f, FieldAppro, LastRow)
	travaux := ReadColumns(f, FieldTravaux, LastRow)
	retenues := ReadColumns(f, FieldRetenues, LastRow)
	lib := ReadColumns(f, FieldLiberationRetenues, LastRow)
	total := ReadColumns(f, FieldTotalDP, TotalDPRowTotalHT)
	tva := ReadColumns(f, FieldTotalDP, TotalDPRowTVA)
	du := ReadColumns(f, FieldTotalDP, TotalDPRowMontantD)

	return Response{
		DocType:    doc.DocType,
		Confidence: p.number(doc.Confidence),

		Chantier:                text(chantier.Value),
		ChantierConfidence:      p.number(chantier.Confidence),
		MaitreOuvrage:           text(maitre.Value),
		MaitreOuvrageConfidence: p.number(maitre.Confidence),
		Lot:                     text(lot.Value),
		LotConfidence:           p.number(lot.Confidence),
		SousTraitant:            text(sst.Value),
		SousTraitantConfidence:  p.number(sst.Confidence),
		NumDP:                   text(numero.Value),
		NumDPConfidence:         p.number(numero.Confidence),
		DateDP:                  text(date.Value),
		DateDPConfidence:        p.number(date.Confidence),

		ApproActuelTTC:              p.number(appro.Actuel.Value),
		ApproActuelTTCConfidence:    p.number(appro.Actuel.Confidence),
		ApproPrecedentTTC:           p.number(appro.Precedent.Value),
		ApproPrecedentTTCConfidence: p.number(appro.Precedent.Confidence),
		ApproMensuelTTC:             p.number(appro.Mensuel.Value),
		ApproMensuelTTCConfidence:   p.number(appro.Mensuel.Confidence),

		MontantTravauxActuel:              p.number(travaux.Actuel.Value),
		MontantTravauxActuelConfidence:    p.number(travaux.Actuel.Confidence),
		MontantTravauxPrecedent:           p.number(travaux.Precedent.Value),
		MontantTravauxPrecedentConfidence: p.number(travaux.Precedent.Confidence),
		MontantTravauxMensuel:             p.number(travaux.Mensuel.Value),
		MontantTravauxMensuelConfidence:   p.number(travaux.Mensuel.Confidence),

		MontantRetenuesActuel:              p.number(retenues.Actuel.Value),
		MontantRetenuesActuelConfidence:    p.number(retenues.Actuel.Confidence),
		MontantRetenuesPrecedent:           p.number(retenues.Precedent.Value),
		MontantRetenuesPrecedentConfidence: p.number(retenues.Precedent.Confidence),
		MontantRetenuesMensuel:             p.number(retenues.Mensuel.Value),
		MontantRetenuesMensuelConfidence:   p.number(retenues.Mensuel.Confidence),

		MontantLibRetenuesActuel:              p.number(lib.Actuel.Value),
		MontantLibRetenuesActuelConfidence:    p.number(lib.Actuel.Confidence),
		MontantLibRetenuesPrecedent:           p.number(lib.Precedent.Value),
		MontantLibRetenuesPrecedentConfidence: p.number(lib.Precedent.Confidence),
		MontantLibRetenuesMensuel:             p.number(lib.Mensuel.Value),
		MontantLibRetenuesMensuelConfidence:   p.number(lib.Mensuel.Confidence),

		TotalHTActuel:              p.number(total.Actuel.Value),
		TotalHTActuelConfidence:    p.number(total.Actuel.Confidence),
		TotalHTPrecedent:           p.number(total.Precedent.Value),
		TotalHTPrecedentConfidence: p.number(total.Precedent.Confidence),
		TotalHTMensuel:             p.number(total.Mensuel.Value),
		TotalHTMensuelConfidence:   p.number(total.Mensuel.Confidence),

		TVAActuel:              p.number(tva.Actuel.Value),
		TVAActuelConfidence:    p.number(tva.Actuel.Confidence),
		TVAPrecedent:           p.number(tva.Precedent.Value),
		TVAPrecedentConfidence: p.number(tva.Precedent.Confidence),
		TVAMensuel:             p.number(tva.Mensuel.Value),
		TVAMensuelConfidence:   p.number(tva.Mensuel.Confidence),

		MontantDuActuel:              p.number(du.Actuel.Value),
		MontantDuActuelConfidence:    p.number(du.Actuel.Confidence),
		MontantDuPrecedent:           p.number(du.Precedent.Value),
		MontantDuPrecedentConfidence: p.number(du.Precedent.Confidence),
		MontantDuMensuel:             p.number(du.Mensuel.Value),
		MontantDuMensuelConfidence:   p.number(du.Mensuel.Confidence),
	}
}
