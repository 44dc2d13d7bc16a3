package errors

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/vango-dev/wingman/pkg/compose"
	"github.com/vango-dev/wingman/pkg/composition"
	"github.com/vango-dev/wingman/pkg/include"
	"github.com/vango-dev/wingman/pkg/loader"
	"github.com/vango-dev/wingman/pkg/output"
)

var supportedAgents = strings.Join([]string{
	composition.AgentCopilot, composition.AgentClaude, composition.AgentClaudePlugin,
}, ", ")

// FromComposeError maps an error from the composition packages onto a coded
// WingmanError. Errors it does not recognise become W005.
func FromComposeError(err error) *WingmanError {
	if err == nil {
		return nil
	}
	var we *WingmanError
	if stderrors.As(err, &we) {
		return we
	}

	var (
		parseErr *loader.ParseError
		readErr  *include.ReadError
		agentErr *output.UnsupportedAgentError
		writeErr *output.WriteError
		stageErr *compose.StageError
	)

	switch {
	case stderrors.Is(err, composition.ErrContextUnavailable):
		return New("W001").Wrap(err).
			WithSuggestion("Call composition.Use only from a component's Render method")

	case stderrors.Is(err, include.ErrMissingIncludeSource):
		return New("W002").Wrap(err).
			WithDetail("An include element has no src.").
			WithSuggestion(`Give every include a path, e.g. "include: docs/rules.md"`)

	case stderrors.As(err, &readErr):
		return New("W003").Wrap(err).
			WithDetailf("%s: %v", readErr.Path, readErr.Err).
			WithSuggestion("Include paths are relative to includeBase (or the target directory)")

	case stderrors.As(err, &agentErr):
		return New("W004").Wrap(err).
			WithDetailf("No output layout for agent %q.", agentErr.Agent).
			WithSuggestion("Use one of: " + supportedAgents)

	case stderrors.As(err, &parseErr):
		e := New("W021").Wrap(err).WithDetail(parseErr.Msg)
		if parseErr.Err != nil {
			e.WithDetailf("%s: %v", parseErr.Msg, parseErr.Err)
		}
		if parseErr.Line > 0 {
			e.WithLocation(parseErr.Path, parseErr.Line, parseErr.Column)
		}
		return e

	case stderrors.As(err, &writeErr):
		code := "W030"
		if writeErr.Op == "remove" {
			code = "W031"
		}
		return New(code).Wrap(err).WithDetailf("%s: %v", writeErr.Path, writeErr.Err)
	}

	if stderrors.As(err, &stageErr) {
		switch stageErr.Stage {
		case compose.StageLoad:
			if stderrors.Is(err, fs.ErrNotExist) {
				return New("W020").Wrap(err).WithDetail(stageErr.Err.Error()).
					WithSuggestion("Check the entry setting in wingman.yaml or pass --entry")
			}
			return New("W021").Wrap(err).WithDetail(stageErr.Err.Error())
		case compose.StageWrite:
			return New("W030").Wrap(err).WithDetail(stageErr.Err.Error())
		case compose.StageClean:
			return New("W031").Wrap(err).WithDetail(stageErr.Err.Error())
		}
		return New("W005").Wrap(err).WithDetail(stageErr.Err.Error())
	}

	return New("W005").Wrap(err).WithDetail(err.Error())
}
