//go:generate mockgen -source=../cart_store.go     -destination=./mock_cart_store.go     -package=mocks
//go:generate mockgen -source=../order_log.go      -destination=./mock_order_log.go      -package=mocks
//go:generate mockgen -source=../cart_observer.go  -destination=./mock_cart_observer.go  -package=mocks
//go:generate mockgen -source=../form_validator.go -destination=./mock_form_validator.go -package=mocks
//go:generate mockgen -source=../logger.go         -destination=./mock_logger.go         -package=mocks

package mocks
