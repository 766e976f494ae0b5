package core

import "encoding/json"

// Description is either plain text or a translated text carrying a language.
// The shape is fixed at extraction time so consumers never inspect raw XML.
type Description struct {
	Text       string
	Lang       string
	Translated bool
}

// PlainText builds a plain-text description.
func PlainText(text string) Description {
	return Description{Text: text}
}

// TranslatedText builds a translated description.
func TranslatedText(text, lang string) Description {
	return Description{Text: text, Lang: lang, Translated: true}
}

// String returns the text regardless of variant.
func (d Description) String() string {
	return d.Text
}

// IsEmpty reports whether there is no text.
func (d Description) IsEmpty() bool {
	return d.Text == ""
}

// MarshalJSON emits a string for plain text and an object for translated text.
func (d Description) MarshalJSON() ([]byte, error) {
	if !d.Translated {
		return json.Marshal(d.Text)
	}
	return json.Marshal(struct {
		Text string `json:"text"`
		Lang string `json:"lang,omitempty"`
	}{d.Text, d.Lang})
}
