package http

import (
	"net/http"

	"lendledger/internal/adapter/middleware"
	"lendledger/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *user.Usecase }

func NewUserHandler(uc *user.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type registerUserReq struct {
	Name string `json:"name" validate:"required,max=255"`
}

type saveFundsReq struct {
	Amount uint64 `json:"amount" validate:"gt=0,lte=1000000000000000"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RegisterUser(c.Request().Context(), middleware.CallerID(c), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) SaveFunds(c echo.Context) error {
	var req saveFundsReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SaveFunds(c.Request().Context(), middleware.CallerID(c), req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UserHandler) Me(c echo.Context) error {
	dto, err := h.uc.GetUser(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
