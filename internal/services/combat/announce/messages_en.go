package announce

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "combat.started", "%s: combat begins. Round %d.")
	message.SetString(lang, "combat.reset", "%s: combat reset. Roll initiative again.")
	message.SetString(lang, "round.started", "Round %d begins.")
	message.SetString(lang, "phase.started", "Phase %d.")
	message.SetString(lang, "phase.empty", "Phase %d: nobody acts.")
	message.SetString(lang, "turn.started", "%s acts (initiative %d, phase %d).")
	message.SetString(lang, "combatant.added", "%s joins the combat.")
	message.SetString(lang, "combatant.removed", "%s leaves the combat.")
	message.SetString(lang, "combatant.modified", "%s was updated (initiative %d).")
	message.SetString(lang, "initiative.rolled", "%s rolls initiative: %v + %d = %d.")
	message.SetString(lang, "warning", "Warning: %s")
	message.SetString(lang, "pool.rolled", "Rolled %d dice against %d: %v. %d successes, %d ones.")
	message.SetString(lang, "pool.critical", "Rolled %d dice against %d: %v. Critical failure!")
}
