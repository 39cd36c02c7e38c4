package view

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mcdev12/painani/go/internal/quiz/controller"
)

// Labels used by the renderers in addition to the controller status keys.
const (
	LabelTeamScore   = "Team %d: %d"
	LabelQuestion    = "%s for %d"
	LabelTurn        = "Turn: team %d"
	LabelTried       = "Already tried: %v"
	LabelMosaic      = "Mosaic %d/%d"
	LabelTimer       = "Time: %d"
	LabelHidden      = "(answers hidden)"
	LabelNoBoard     = "No categories"
	LabelMosaicReady = "Hidden image revealed: %s"
)

// DefaultLanguage is the language of the game's audience.
var DefaultLanguage = language.Spanish

var spanish = map[string]string{
	controller.MsgSelectCell:     "Selecciona una casilla para abrir una pregunta.",
	controller.MsgQuestionOpen:   "Pregunta abierta. ¡Toca tu timbre para responder!",
	controller.MsgTeamTurn:       "Equipo %d tiene el turno. ¡Responde!",
	controller.MsgCorrect:        "¡Correcto! Elige otra casilla.",
	controller.MsgRebound:        "Rebote: otro equipo puede contestar.",
	controller.MsgNoTriesLeft:    "Sin intentos restantes. Elige otra casilla.",
	controller.MsgSelectFirst:    "Selecciona una respuesta primero.",
	controller.MsgTimeUp:         "¡Se acabó el tiempo!",
	controller.MsgGameReset:      "Juego reiniciado. Selecciona una casilla.",
	controller.MsgAnswersHidden:  "Modo moderador: respuestas ocultas.",
	controller.MsgAnswersShown:   "Respuestas visibles.",
	controller.MsgTeamCount:      "Jugando con %d equipos.",
	controller.MsgMosaicComplete: "¡La imagen oculta está completa!",
	controller.MsgServerError:    "Error: %s",
	controller.MsgUnknownError:   "Error desconocido",
	controller.MsgBoardFallback:  "No hay filas jugables; se muestra todo el tablero.",

	LabelTeamScore:   "Equipo %d: %d",
	LabelQuestion:    "%s por %d",
	LabelTurn:        "Turno: equipo %d",
	LabelTried:       "Ya intentaron: %v",
	LabelMosaic:      "Mosaico %d/%d",
	LabelTimer:       "Tiempo: %d",
	LabelHidden:      "(respuestas ocultas)",
	LabelNoBoard:     "No hay categorías",
	LabelMosaicReady: "Imagen oculta revelada: %s",
}

func init() {
	for key, msg := range spanish {
		// Keys are the English text.
		if err := message.SetString(language.English, key, key); err != nil {
			panic(err)
		}
		if err := message.SetString(language.Spanish, key, msg); err != nil {
			panic(err)
		}
	}
}

// ParseLanguage resolves a configured language tag, falling back to the
// default language.
func ParseLanguage(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	switch base.String() {
	case "es":
		return language.Spanish
	case "en":
		return language.English
	default:
		return DefaultLanguage
	}
}

// NewPrinter returns a printer for tag.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Format renders a status through p.
func Format(p *message.Printer, st controller.Status) string {
	return p.Sprintf(st.Message, st.Args...)
}
