package main

import (
	"lendledger/internal/adapter/repository/mysql"
	"lendledger/internal/infrastructure/db"
	"lendledger/internal/usecase/loan"
	"lendledger/internal/usecase/repayment"
	"lendledger/internal/usecase/user"
	"lendledger/pkg/clock"

	"gorm.io/gorm"
)

type app struct {
	db         *gorm.DB
	loans      *loan.Usecase
	users      *user.Usecase
	repayments *repayment.Usecase
}

func openApp() (*app, error) {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		return nil, err
	}
	tx := mysql.NewGormUoW(gdb)
	clk := clock.System{}
	return &app{
		db:         gdb,
		loans:      loan.NewUsecase(tx, clk, log.Named("loan")),
		users:      user.NewUsecase(tx, log.Named("user")),
		repayments: repayment.NewUsecase(tx, clk, log.Named("repayment")),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
