package mocks

//go:generate mockgen -destination=./mock_store.go -package=mocks github.com/quantarc/tradegate/internal/store BarStore,OrderRepository
//go:generate mockgen -destination=./mock_services.go -package=mocks github.com/quantarc/tradegate/internal/services AccountService,DataFeedService,OrderService
