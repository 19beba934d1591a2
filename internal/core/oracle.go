package core

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"go.uber.org/zap"
)

// OracleQuery answers technical questions from the recent cross-session log.
type OracleQuery struct {
	store  Store
	port   cognitive.Port
	logger *zap.Logger
}

// NewOracleQuery creates an OracleQuery.
func NewOracleQuery(store Store, port cognitive.Port, logger *zap.Logger) *OracleQuery {
	return &OracleQuery{store: store, port: port, logger: logger}
}

// Ask forwards the question and the latest Steps, newest first, and
// returns the port's answer verbatim. Nothing is persisted.
func (o *OracleQuery) Ask(ctx context.Context, req OracleRequest) (res Result) {
	defer recoverResult(o.logger, OpAskOracle, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	steps, err := o.store.GetStepsForOracle(OracleStepsLimit)
	if err != nil {
		return opFailed(KindPersistence, OpAskOracle, err)
	}

	records := make([]cognitive.ContextRecord, 0, len(steps))
	for _, s := range steps {
		records = append(records, cognitive.ContextRecord{
			Action:       s.Action,
			Implications: s.Implications,
			SessionID:    s.SessionID,
		})
	}

	answer, err := o.port.AnswerFromContext(ctx, req.Question, records)
	if err != nil {
		return opFailed(KindCollaborator, OpAskOracle, err)
	}
	return success(answer)
}
