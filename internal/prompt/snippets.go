package prompt

import "strings"

// SnippetWordLimit is the word ceiling communicated to the provider. It is
// not enforced on the generated text.
const SnippetWordLimit = 30

// Snippet archetypes.
const (
	SnippetStandard  = "standard"
	SnippetOpener    = "opener"
	SnippetSignal    = "signal_hook"
	SnippetCaseStudy = "case_study"
	SnippetCTA       = "cta"
	SnippetPS        = "ps_line"
)

// Archetype is one kind of snippet and the instruction used when the
// request carries no task of its own.
type Archetype struct {
	Type        string
	Label       string
	Instruction string
}

var archetypes = map[string]Archetype{
	SnippetStandard: {
		Type:        SnippetStandard,
		Label:       "Snippet personalizado",
		Instruction: "Escribe una frase personalizada que conecte el contexto del prospecto con un dolor relevante de su rol o industria.",
	},
	SnippetOpener: {
		Type:        SnippetOpener,
		Label:       "Linea de apertura",
		Instruction: "Escribe la primera linea del email: una observacion especifica sobre el prospecto o su empresa, sin presentarte ni saludar.",
	},
	SnippetSignal: {
		Type:        SnippetSignal,
		Label:       "Gancho de senal",
		Instruction: "Escribe una frase que use la senal detectada como gancho y la conecte con el dolor que probablemente genera.",
	},
	SnippetCaseStudy: {
		Type:        SnippetCaseStudy,
		Label:       "Mencion de caso de exito",
		Instruction: "Escribe una frase que mencione un caso de exito similar (misma industria o pais) y su resultado concreto.",
	},
	SnippetCTA: {
		Type:        SnippetCTA,
		Label:       "Llamado a la accion",
		Instruction: "Escribe un cierre con una pregunta de baja friccion que invite a responder, sin pedir una reunion larga.",
	},
	SnippetPS: {
		Type:        SnippetPS,
		Label:       "Postdata",
		Instruction: "Escribe una linea de P.D. breve con un dato o caso relevante que refuerce el mensaje principal.",
	},
}

// LookupArchetype returns the archetype for typ; unknown types get the
// standard archetype.
func LookupArchetype(typ string) Archetype {
	if a, ok := archetypes[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return a
	}
	return archetypes[SnippetStandard]
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
