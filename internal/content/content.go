package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/giftreveal/internal/config"
)

// Document is the structured text of a voucher. The renderer treats it as
// generic input; the built-in documents are constants.
type Document struct {
	Recipient  string    `yaml:"recipient"`
	Headline   string    `yaml:"headline"`
	Subtitle   string    `yaml:"subtitle"`
	OfferTitle string    `yaml:"offer_title"`
	Benefits   []Benefit `yaml:"benefits"`
	Duration   string    `yaml:"duration"`
	Signature  []string  `yaml:"signature"`
}

// Benefit is one line of the offer body. An empty Text is a spacer line that
// still advances the layout.
type Benefit struct {
	Text   string `yaml:"text"`
	Indent bool   `yaml:"indent,omitempty"`
}

// Spa is the day-at-the-spa voucher. The duration statement is the last body
// line, so Duration is left empty.
func Spa() *Document {
	return &Document{
		Recipient:  "A la atención de Noelia Rodríguez Fernández",
		Headline:   "¡Feliz Día de Reyes!",
		Subtitle:   "Un regalo especial para ti:",
		OfferTitle: "Un Día de Spa Inolvidable.",
		Benefits: []Benefit{
			{Text: `Disfruta de un tratamiento exclusivo "Reset Capilar" by`},
			{Text: "L'Oreal Professionnel® que incluye:"},
			{},
			{Text: "Diagnóstico capilar personalizado."},
			{Text: "Ritual de lavado de lujo con la gama Absolut Repair Molecular"},
			{Text: "(Spray pre-tratamiento, Champú, Serum con activos de henné spa.", Indent: true},
			{Text: "Relajante masaje craneal y capilar con diadema de henna-spa."},
			{Text: "Secado profesional con Absolut Repair Molecular Mascarilla"},
			{Text: "Leave in.", Indent: true},
			{},
			{Text: "Duración total: 60 minutos."},
		},
		Signature: []string{"Con todo el cariño,", "Los Reyes Magos."},
	}
}

// Parchment is the scroll-styled voucher of the click variant. It carries a
// separate duration statement and the validity date of the offer.
func Parchment() *Document {
	return &Document{
		Recipient:  "Para Noelia Rodríguez Fernández",
		Headline:   "Pergamino Real de los Reyes Magos",
		Subtitle:   "Por la presente, Sus Majestades te conceden:",
		OfferTitle: "Un Día de Spa Inolvidable.",
		Benefits: []Benefit{
			{Text: `Tratamiento exclusivo "Reset Capilar" by L'Oreal Professionnel®`},
			{},
			{Text: "Diagnóstico capilar personalizado."},
			{Text: "Ritual de lavado de lujo con la gama Absolut Repair Molecular"},
			{Text: "(Spray pre-tratamiento, Champú y Serum con activos de henné spa.)", Indent: true},
			{Text: "Relajante masaje craneal y capilar con diadema de henna-spa."},
			{Text: "Secado profesional con Absolut Repair Molecular"},
			{Text: "Mascarilla Leave in.", Indent: true},
			{},
			{Text: "Válido hasta el 6 de febrero de 2025."},
		},
		Duration:  "Duración total: 60 minutos.",
		Signature: []string{"Con todo el cariño,", "Melchor, Gaspar y Baltasar."},
	}
}

// ForVariant returns the built-in document of a variant.
func ForVariant(v config.Variant) *Document {
	if v == config.VariantClick {
		return Parchment()
	}
	return Spa()
}

// Load reads a document from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing content %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return &doc, nil
}

// Write stores a document as YAML.
func Write(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the blocks the layout always draws are present.
func (d *Document) Validate() error {
	if d.Recipient == "" || d.Headline == "" || d.OfferTitle == "" {
		return fmt.Errorf("recipient, headline and offer_title are required")
	}
	if len(d.Signature) == 0 {
		return fmt.Errorf("signature needs at least one line")
	}
	return nil
}
