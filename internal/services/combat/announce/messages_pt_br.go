package announce

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.BrazilianPortuguese

	message.SetString(lang, "combat.started", "%s: o combate começa. Rodada %d.")
	message.SetString(lang, "combat.reset", "%s: combate reiniciado. Rolem iniciativa novamente.")
	message.SetString(lang, "round.started", "Começa a rodada %d.")
	message.SetString(lang, "phase.started", "Fase %d.")
	message.SetString(lang, "phase.empty", "Fase %d: ninguém age.")
	message.SetString(lang, "turn.started", "%s age (iniciativa %d, fase %d).")
	message.SetString(lang, "combatant.added", "%s entra no combate.")
	message.SetString(lang, "combatant.removed", "%s sai do combate.")
	message.SetString(lang, "combatant.modified", "%s foi atualizado (iniciativa %d).")
	message.SetString(lang, "initiative.rolled", "%s rola iniciativa: %v + %d = %d.")
	message.SetString(lang, "warning", "Aviso: %s")
	message.SetString(lang, "pool.rolled", "Rolou %d dados contra %d: %v. %d sucessos, %d uns.")
	message.SetString(lang, "pool.critical", "Rolou %d dados contra %d: %v. Falha crítica!")
}
