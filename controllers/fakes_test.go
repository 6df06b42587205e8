package controllers

import (
	"context"

	"github.com/iluvios/menumagic-sub001/middlewares"
	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/service"

	"github.com/gin-gonic/gin"
)

var testSession = models.Session{UserID: 11, RestaurantID: 5}

// withSession stands in for middlewares.SessionAuth.
func withSession(c *gin.Context) {
	c.Set(middlewares.SessionKey, testSession)
	c.Next()
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

type fakeInventory struct {
	gotSession models.Session
	gotAdjust  service.AdjustInput
	gotLimit   int
	result     service.AdjustResult
	history    []models.InventoryAdjustment
	err        error
}

func (f *fakeInventory) Adjust(_ context.Context, s models.Session, in service.AdjustInput) (service.AdjustResult, error) {
	f.gotSession, f.gotAdjust = s, in
	return f.result, f.err
}

func (f *fakeInventory) History(_ context.Context, s models.Session, _ uint, limit int) ([]models.InventoryAdjustment, error) {
	f.gotSession, f.gotLimit = s, limit
	return f.history, f.err
}

func (f *fakeInventory) StockLevels(context.Context, models.Session) ([]service.StockLevelRow, error) {
	return nil, f.err
}

type fakeOrders struct {
	gotPayment service.PaymentInput
	gotStatus  models.OrderStatus
	gotOrderID uint
	view       service.OrderView
	err        error
}

func (f *fakeOrders) CreateOrder(_ context.Context, _ models.Session, _ service.CreateOrderInput) (service.OrderView, error) {
	return f.view, f.err
}

func (f *fakeOrders) RecordPayment(_ context.Context, _ models.Session, id uint, in service.PaymentInput) (service.OrderView, error) {
	f.gotOrderID, f.gotPayment = id, in
	return f.view, f.err
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _ models.Session, id uint, st models.OrderStatus) (service.OrderView, error) {
	f.gotOrderID, f.gotStatus = id, st
	return f.view, f.err
}

func (f *fakeOrders) GetOrder(_ context.Context, _ models.Session, id uint) (service.OrderView, error) {
	f.gotOrderID = id
	return f.view, f.err
}

func (f *fakeOrders) ListOrders(context.Context, models.Session, service.OrderFilter) ([]service.OrderView, int64, error) {
	return []service.OrderView{f.view}, 1, f.err
}

type fakeMenus struct {
	service.MenuService // only Public is exercised
	public              service.PublicMenu
	err                 error
}

func (f *fakeMenus) Public(context.Context, uint) (service.PublicMenu, error) {
	return f.public, f.err
}
