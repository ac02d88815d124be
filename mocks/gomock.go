package mocks

//go:generate mockgen -source=./../engine/services/dispatcher/dispatcher.go -destination=./serviceMocks/dispatcher_mock.go -package=serviceMocks
//go:generate mockgen -source=./../engine/eventlog/eventlog.go -destination=./eventlogMocks/eventlog_mock.go -package=eventlogMocks
//go:generate mockgen -source=./../engine/modules/verifier/verifier.go -destination=./verifierMocks/verifier_mock.go -package=verifierMocks
