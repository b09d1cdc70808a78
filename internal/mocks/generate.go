package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name HistoryStore --dir ../domain/draft --output domain/draft --outpkg draftmock --filename history_store_mock.go
