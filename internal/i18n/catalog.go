// Package i18n holds the kiosk's translated strings.
//
// Message keys are the English text. French is the kiosk default, matching the
// server which answers with French error details.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Keys of the fixed fallback messages used when the server gives no detail
const (
	MsgLoadRequestsFailed   = "Failed to load requests"
	MsgCreateRequestFailed  = "Failed to create request"
	MsgCancelRequestFailed  = "Failed to cancel request"
	MsgLoadRequestFailed    = "Failed to load request"
	MsgLoadStatsFailed      = "Failed to load statistics"
	MsgApproveRequestFailed = "Failed to approve request"
	MsgUpdateRequestFailed  = "Failed to update request"
	MsgSearchFailed         = "Search failed"
	MsgDetailsFailed        = "Failed to load details"
	MsgLoginFailed          = "Login failed"
	MsgLoadUserFailed       = "Failed to load user"
	MsgUsersFailed          = "Failed to manage users"
	MsgSettingsFailed       = "Failed to manage settings"
)

// Status labels
const (
	LabelPending          = "Pending"
	LabelSearching        = "Searching"
	LabelAwaitingApproval = "Awaiting approval"
	LabelDownloading      = "Downloading"
	LabelProcessing       = "Processing"
	LabelCompleted        = "Available"
	LabelError            = "Error"
	LabelCancelled        = "Cancelled"
)

var french = map[string]string{
	MsgLoadRequestsFailed:   "Erreur lors du chargement des demandes",
	MsgCreateRequestFailed:  "Erreur lors de la création de la demande",
	MsgCancelRequestFailed:  "Erreur lors de l'annulation",
	MsgLoadRequestFailed:    "Erreur lors du chargement de la demande",
	MsgLoadStatsFailed:      "Erreur lors du chargement des statistiques",
	MsgApproveRequestFailed: "Erreur lors de l'approbation",
	MsgUpdateRequestFailed:  "Erreur lors de la mise à jour de la demande",
	MsgSearchFailed:         "Erreur lors de la recherche",
	MsgDetailsFailed:        "Erreur lors du chargement des détails",
	MsgLoginFailed:          "Erreur de connexion",
	MsgLoadUserFailed:       "Erreur lors du chargement de l'utilisateur",
	MsgUsersFailed:          "Erreur lors de la gestion des utilisateurs",
	MsgSettingsFailed:       "Erreur lors de la gestion des paramètres",

	LabelPending:          "En attente",
	LabelSearching:        "Recherche",
	LabelAwaitingApproval: "Validation requise",
	LabelDownloading:      "Téléchargement",
	LabelProcessing:       "Traitement",
	LabelCompleted:        "Disponible",
	LabelError:            "Erreur",
	LabelCancelled:        "Annulé",
}

var (
	// Default is the kiosk language when none is configured
	Default = language.French

	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
	messages  = build()
)

func build() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range french {
		// SetString only fails on malformed keys, which these constants are not
		_ = b.SetString(language.French, key, text)
		_ = b.SetString(language.English, key, key)
	}
	return b
}

// Tag resolves a configured language name ("fr", "en-GB", ...) to a supported tag
func Tag(name string) language.Tag {
	if name == "" {
		return Default
	}
	parsed, err := language.Parse(name)
	if err != nil {
		return Default
	}
	_, index, _ := matcher.Match(parsed)
	return supported[index]
}

// Printer returns a printer translating kiosk messages into the given language
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// Translator turns message keys into text for one language
type Translator struct {
	printer *message.Printer
}

// NewTranslator creates a translator for a configured language name
func NewTranslator(lang string) *Translator {
	return &Translator{printer: Printer(Tag(lang))}
}

// T translates a message key. Keys without a translation are returned as-is.
func (t *Translator) T(key string) string {
	if t == nil || t.printer == nil {
		return key
	}
	return t.printer.Sprintf(key)
}
