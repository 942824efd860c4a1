package templates

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed copy.yaml
var rawCopy []byte

// Copy is the text of one email kind.
type Copy struct {
	Subject string `yaml:"subject"`
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
	Action  string `yaml:"action"`
	Footer  string `yaml:"footer"`
}

// Catalogue holds the copy for every email kind.
type Catalogue struct {
	Confirmation  Copy `yaml:"confirmation"`
	ChangeEmail   Copy `yaml:"change_email"`
	ResetPassword Copy `yaml:"reset_password"`
}

var catalogue = mustParse(rawCopy)

// ParseCatalogue decodes a YAML copy catalogue and checks every kind has a
// subject and an action label.
func ParseCatalogue(data []byte) (Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalogue{}, fmt.Errorf("parse email copy: %w", err)
	}
	for name, cp := range map[string]Copy{
		"confirmation":   c.Confirmation,
		"change_email":   c.ChangeEmail,
		"reset_password": c.ResetPassword,
	} {
		if cp.Subject == "" || cp.Action == "" {
			return Catalogue{}, fmt.Errorf("parse email copy: %s: subject and action are required", name)
		}
	}
	return c, nil
}

func mustParse(data []byte) Catalogue {
	c, err := ParseCatalogue(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the embedded catalogue.
func Default() Catalogue { return catalogue }
