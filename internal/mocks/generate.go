package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/match --output domain/match --outpkg matchmock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/match --output domain/match --outpkg matchmock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename source_mock.go
