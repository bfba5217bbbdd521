package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/question --output domain/question --outpkg questionmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/candidate --output domain/candidate --outpkg candidatemock --filename repository_mock.go
