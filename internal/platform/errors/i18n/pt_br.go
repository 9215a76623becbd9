package i18n

var ptBRMessages = map[Code]string{
	CodeNotAuthorized:          "Somente o mestre pode fazer isso.",
	CodeNotFound:               "{{if .Resource}}{{.Resource}} não encontrado.{{else}}Não encontrado.{{end}}",
	CodeCombatAlreadyActive:    "O combate já está em andamento. Reinicie primeiro.",
	CodeCombatNotActive:        "O combate ainda não começou.",
	CodeCombatNotAllRolled:     "Todos precisam rolar iniciativa antes do combate. Aguardando: {{.Combatants}}.",
	CodeCombatRosterEmpty:      "Adicione ao menos um combatente antes de iniciar o combate.",
	CodeSessionNameEmpty:       "A sessão de combate precisa de um nome.",
	CodeCombatantExists:        "{{.Name}} já está no combate.",
	CodeCombatantAlreadyRolled: "{{.Name}} já rolou iniciativa. Role novamente de forma explícita para substituir.",
	CodeCombatantInvalid:       "Combatente inválido: {{.Reason}}.",
	CodeDiceMissing:            "Pelo menos um dado é necessário.",
	CodeDiceInvalidSpec:        "Os dados precisam de lados e quantidade positivos.",
	CodeDicePoolInvalid:        "A parada de dados precisa de ao menos um dado.",
	CodeDiceTargetInvalid:      "O número-alvo deve ser pelo menos 2.",
	CodeInitiativeDiceInvalid:  "A iniciativa precisa de ao menos um dado.",
	CodeInitiativeBonusInvalid: "O bônus de reação não pode ser negativo.",
	CodePhaseInvalid:           "As fases começam em 1.",
}
