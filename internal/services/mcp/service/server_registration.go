package service

import (
	"fmt"

	"github.com/louisbranch/phaseline/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpSessionToolsModuleName    = "session-tools"
	mcpCombatantToolsModuleName  = "combatant-tools"
	mcpCombatToolsModuleName     = "combat-tools"
	mcpDiceToolsModuleName       = "dice-tools"
	mcpActorToolsModuleName      = "actor-tools"
	mcpContextToolsModuleName    = "context-tools"
	mcpSessionResourceModuleName = "session-resources"
	mcpContextResourceModuleName = "context-resources"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.SessionCreateInput, domain.SessionResult](),
	newMCPToolRegistrar[domain.SessionRefInput, domain.SessionResult](),
	newMCPToolRegistrar[domain.SessionListInput, domain.SessionListResult](),
	newMCPToolRegistrar[domain.SessionRefInput, domain.SessionDeleteResult](),
	newMCPToolRegistrar[domain.CombatantAddInput, domain.CombatantAddResult](),
	newMCPToolRegistrar[domain.CombatantCreateInput, domain.CombatantAddResult](),
	newMCPToolRegistrar[domain.SessionRefInput, domain.CombatantAddResult](),
	newMCPToolRegistrar[domain.CombatantRefInput, domain.CombatantRemoveResult](),
	newMCPToolRegistrar[domain.CombatantModifyInput, domain.CombatantModifyResult](),
	newMCPToolRegistrar[domain.InitiativeRollInput, domain.InitiativeRollResult](),
	newMCPToolRegistrar[domain.InitiativeRollAllInput, domain.InitiativeRollAllResult](),
	newMCPToolRegistrar[domain.SessionRefInput, domain.CommandResult](),
	newMCPToolRegistrar[domain.CombatPhaseInput, domain.CombatPhaseResult](),
	newMCPToolRegistrar[domain.PoolRollInput, domain.PoolRollResult](),
	newMCPToolRegistrar[domain.RollDiceInput, domain.RollDiceResult](),
	newMCPToolRegistrar[domain.ActorPutInput, domain.ActorResult](),
	newMCPToolRegistrar[domain.ActorListInput, domain.ActorListResult](),
	newMCPToolRegistrar[domain.ActorDeleteInput, domain.ActorDeleteResult](),
	newMCPToolRegistrar[domain.SelectionSetInput, domain.SelectionSetResult](),
	newMCPToolRegistrar[domain.SetContextInput, domain.SetContextResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(server *Server, notify domain.ResourceUpdateNotifier) []mcpRegistrationModule {
	combat := server.deps.Combat
	return []mcpRegistrationModule{
		{
			name: mcpSessionToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerSessionTools(registrar, combat, server, notify)
			},
		},
		{
			name: mcpCombatantToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerCombatantTools(registrar, combat, server.getContext, notify)
			},
		},
		{
			name: mcpCombatToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerCombatTools(registrar, combat, server.getContext, notify)
			},
		},
		{
			name: mcpDiceToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerDiceTools(registrar, combat, server.getContext, server.deps.NewSeed)
			},
		},
		{
			name: mcpActorToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerActorTools(registrar, server.deps.Actors, server.getContext)
			},
		},
		{
			name: mcpContextToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerContextTools(registrar, combat, server, notify)
			},
		},
		{
			name: mcpSessionResourceModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerSessionResources(registrar, combat)
				return nil
			},
		},
		{
			name: mcpContextResourceModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerContextResources(registrar, server)
				return nil
			},
		},
	}
}
