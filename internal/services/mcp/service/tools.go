package service

import (
	"fmt"

	"github.com/louisbranch/phaseline/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

type toolRegistration struct {
	tool    *mcp.Tool
	handler any
}

func registerSessionTools(registrar mcpRegistrationTarget, svc domain.CombatService, server *Server, notify domain.ResourceUpdateNotifier) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.SessionCreateTool(), handler: domain.SessionCreateHandler(svc, server.getContext, server.setContext, notify)},
		{tool: domain.SessionGetTool(), handler: domain.SessionGetHandler(svc, server.getContext)},
		{tool: domain.SessionListTool(), handler: domain.SessionListHandler(svc)},
		{tool: domain.SessionDeleteTool(), handler: domain.SessionDeleteHandler(svc, server.getContext, server.setContext, notify)},
	})
}

func registerCombatantTools(registrar mcpRegistrationTarget, svc domain.CombatService, getContext func() domain.Context, notify domain.ResourceUpdateNotifier) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.CombatantAddTool(), handler: domain.CombatantAddHandler(svc, getContext, notify)},
		{tool: domain.CombatantCreateTool(), handler: domain.CombatantCreateHandler(svc, getContext, notify)},
		{tool: domain.CombatantAddSelectedTool(), handler: domain.CombatantAddSelectedHandler(svc, getContext, notify)},
		{tool: domain.CombatantRemoveTool(), handler: domain.CombatantRemoveHandler(svc, getContext, notify)},
		{tool: domain.CombatantModifyTool(), handler: domain.CombatantModifyHandler(svc, getContext, notify)},
		{tool: domain.InitiativeRollTool(), handler: domain.InitiativeRollHandler(svc, getContext, notify)},
		{tool: domain.InitiativeRollAllTool(), handler: domain.InitiativeRollAllHandler(svc, getContext, notify)},
	})
}

func registerCombatTools(registrar mcpRegistrationTarget, svc domain.CombatService, getContext func() domain.Context, notify domain.ResourceUpdateNotifier) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.CombatStartTool(), handler: domain.CombatStartHandler(svc, getContext, notify)},
		{tool: domain.CombatNextTurnTool(), handler: domain.CombatNextTurnHandler(svc, getContext, notify)},
		{tool: domain.CombatNextPhaseTool(), handler: domain.CombatNextPhaseHandler(svc, getContext, notify)},
		{tool: domain.CombatResetTool(), handler: domain.CombatResetHandler(svc, getContext, notify)},
		{tool: domain.CombatPhaseTool(), handler: domain.CombatPhaseHandler(svc, getContext)},
	})
}

func registerDiceTools(registrar mcpRegistrationTarget, svc domain.CombatService, getContext func() domain.Context, newSeed func() (int64, error)) error {
	if err := registerTool(registrar, domain.PoolRollTool(), domain.PoolRollHandler(svc, getContext)); err != nil {
		return err
	}
	return registerTool(registrar, domain.RollDiceTool(), domain.RollDiceHandler(getContext, newSeed))
}

func registerActorTools(registrar mcpRegistrationTarget, catalog domain.ActorCatalog, getContext func() domain.Context) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.ActorPutTool(), handler: domain.ActorPutHandler(catalog, getContext)},
		{tool: domain.ActorListTool(), handler: domain.ActorListHandler(catalog)},
		{tool: domain.ActorDeleteTool(), handler: domain.ActorDeleteHandler(catalog, getContext)},
		{tool: domain.SelectionSetTool(), handler: domain.SelectionSetHandler(catalog, getContext)},
	})
}

// registerContextTools registers context management tools.
func registerContextTools(registrar mcpRegistrationTarget, svc domain.CombatService, server *Server, notify domain.ResourceUpdateNotifier) error {
	return registerTool(registrar, domain.SetContextTool(), domain.SetContextHandler(
		svc,
		server.setContext,
		server.getContext,
		notify,
	))
}

func registerTools(registrar mcpRegistrationTarget, registrations []toolRegistration) error {
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerSessionResources registers readable combat session resources.
func registerSessionResources(registrar mcpRegistrationTarget, svc domain.CombatService) {
	registrar.AddResource(domain.SessionListResource(), domain.SessionListResourceHandler(svc))
	registrar.AddResourceTemplate(domain.SessionResourceTemplate(), domain.SessionResourceHandler(svc))
}

// registerContextResources registers readable context MCP resources.
func registerContextResources(registrar mcpRegistrationTarget, server *Server) {
	registrar.AddResource(domain.ContextResource(), domain.ContextResourceHandler(server.getContext))
}
