package session

// Prompt strings and option menus for each collection step. These are
// configuration data; the transition logic never branches on their content.

const (
	promptTopology = "🔍 *Diagnóstico guiado iniciado.*\n\n*1/5* — Qual a *topologia da rede*?"

	promptSignal = "*2/5* — Qual a *potência medida* no power meter?\n\nEnvie somente o número, em dBm (ex: `28` ou `27,5`)."

	msgInvalidSignal = "⚠️ Valor inválido. Envie somente o número medido em dBm (ex: `28` ou `27,5`)."

	promptPolarity = "*3/5* — O valor medido é *positivo ou negativo*?"

	promptLocation = "*4/5* — *Onde* foi feita a medição?"

	promptDescription = "*5/5* — Descreva o *problema encontrado*.\n\n📝 Escreva ou 🗣️ mande um áudio."

	msgVoiceNotExpected = "🎙️ Áudio só é aceito na etapa de descrição do problema."

	// MsgCancelled acknowledges an explicit cancellation from any state.
	MsgCancelled = "❌ Diagnóstico cancelado. Nenhum dado foi enviado.\n\nEnvie /diagnostico para recomeçar."

	// MsgNoActiveSession hints at the start command when no flow is active.
	MsgNoActiveSession = "Nenhum diagnóstico em andamento. Envie /diagnostico para iniciar a coleta guiada."

	// PlaceholderUnintelligible replaces the description when transcription
	// fails; the flow still completes.
	PlaceholderUnintelligible = "Áudio ininteligível - técnico relatou o problema por voz, mas a transcrição falhou."
)

// Option menus surfaced as one-time reply keyboards.
var (
	MenuTopology = []string{"Barramento (Desbalanceada)", "Balanceada (Splitter)"}
	MenuPolarity = []string{"Positivo (+)", "Negativo (-)"}
	MenuLocation = []string{"CTO", "Saída do splitter", "Casa do cliente", "OLT"}
)

// Start builds the opening reply of a fresh session.
func Start() Reply {
	return Reply{Text: promptTopology, Menu: MenuTopology}
}
