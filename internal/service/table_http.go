package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationTableListGames     = "/reelflow.v1.Table/ListGames"
	OperationTableListTables    = "/reelflow.v1.Table/ListTables"
	OperationTableCreateTable   = "/reelflow.v1.Table/CreateTable"
	OperationTableGetTable      = "/reelflow.v1.Table/GetTable"
	OperationTableDeleteTable   = "/reelflow.v1.Table/DeleteTable"
	OperationTableSpin          = "/reelflow.v1.Table/Spin"
	OperationTableBuyFeature    = "/reelflow.v1.Table/BuyFeature"
	OperationTableStartFeature  = "/reelflow.v1.Table/StartFeature"
	OperationTableSkip          = "/reelflow.v1.Table/Skip"
	OperationTableReset         = "/reelflow.v1.Table/Reset"
	OperationTableSetTurbo      = "/reelflow.v1.Table/SetTurbo"
	OperationTableSetAutoplay   = "/reelflow.v1.Table/SetAutoplay"
	OperationTableSetBet        = "/reelflow.v1.Table/SetBet"
	OperationTableExportJournal = "/reelflow.v1.Table/ExportJournal"
	OperationTableListRounds    = "/reelflow.v1.Table/ListRounds"
)

// RegisterTableHTTPServer 注册 /v1 路由
func RegisterTableHTTPServer(s *http.Server, srv *TableService) {
	r := s.Route("/v1")
	r.GET("/games", handler(OperationTableListGames, bindNone[struct{}], srv.ListGames))
	r.GET("/tables", handler(OperationTableListTables, bindNone[struct{}], srv.ListTables))
	r.POST("/tables", handler(OperationTableCreateTable, bindBody[CreateTableRequest], srv.CreateTable))
	r.GET("/tables/{tableId}", handler(OperationTableGetTable, bindVars[TableRequest], srv.GetTable))
	r.DELETE("/tables/{tableId}", handler(OperationTableDeleteTable, bindVars[TableRequest], srv.DeleteTable))
	r.POST("/tables/{tableId}/spin", handler(OperationTableSpin, bindVars[TableRequest], srv.Spin))
	r.POST("/tables/{tableId}/buy", handler(OperationTableBuyFeature, bindVars[TableRequest], srv.BuyFeature))
	r.POST("/tables/{tableId}/start-feature", handler(OperationTableStartFeature, bindVars[TableRequest], srv.StartFeature))
	r.POST("/tables/{tableId}/skip", handler(OperationTableSkip, bindVars[TableRequest], srv.Skip))
	r.POST("/tables/{tableId}/reset", handler(OperationTableReset, bindVars[TableRequest], srv.Reset))
	r.POST("/tables/{tableId}/turbo", handler(OperationTableSetTurbo, bindBodyVars[ToggleRequest], srv.SetTurbo))
	r.POST("/tables/{tableId}/autoplay", handler(OperationTableSetAutoplay, bindBodyVars[ToggleRequest], srv.SetAutoplay))
	r.POST("/tables/{tableId}/bet", handler(OperationTableSetBet, bindBodyVars[SetBetRequest], srv.SetBet))
	r.POST("/tables/{tableId}/journal", handler(OperationTableExportJournal, bindVars[TableRequest], srv.ExportJournal))
	r.GET("/rounds", handler(OperationTableListRounds, bindQuery[ListRoundsRequest], srv.ListRounds))
}

func handler[In, Out any](op string, bind func(http.Context, *In) error, call func(context.Context, *In) (*Out, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in In
		if err := bind(ctx, &in); err != nil {
			return err
		}
		http.SetOperation(ctx, op)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*In))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*Out))
	}
}

func bindNone[In any](http.Context, *In) error { return nil }

func bindVars[In any](ctx http.Context, in *In) error { return ctx.BindVars(in) }

func bindQuery[In any](ctx http.Context, in *In) error { return ctx.BindQuery(in) }

func bindBody[In any](ctx http.Context, in *In) error { return ctx.Bind(in) }

func bindBodyVars[In any](ctx http.Context, in *In) error {
	if err := ctx.Bind(in); err != nil {
		return err
	}
	return ctx.BindVars(in)
}
