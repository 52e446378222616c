package qrs_client

import (
	"github.com/qrs-tools/go-qrs-client/core"
)

type (
	QRSConfig         = core.QRSConfig
	QRSConfigFunc     = core.QRSConfigFunc
	Params            = core.Params
	Args              = core.Args
	Record            = core.Record
	RecordSet         = core.RecordSet
	Raw               = core.Raw
	Renderable        = core.Renderable
	Method            = core.Method
	MethodInfo        = core.MethodInfo
	Descriptor        = core.Descriptor
	InvokeFunc        = core.InvokeFunc
	AsyncResult       = core.AsyncResult
	BeforeRequestFunc = core.BeforeRequestFunc
	AfterRequestFunc  = core.AfterRequestFunc
)

var (
	IsMethodNotAllowedErr     = core.IsMethodNotAllowedErr
	IsPathNotSpecifiedErr     = core.IsPathNotSpecifiedErr
	IsMethodExistsErr         = core.IsMethodExistsErr
	IsMethodNotFoundErr       = core.IsMethodNotFoundErr
	IsMissingTemplateParamErr = core.IsMissingTemplateParamErr
	IsDecodeErr               = core.IsDecodeErr
)

func ClientVersion() string {
	return core.ClientVersion()
}
