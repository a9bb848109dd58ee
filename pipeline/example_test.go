package pipeline_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonwraymond/storops/account"
	"github.com/jonwraymond/storops/auth"
	"github.com/jonwraymond/storops/options"
	"github.com/jonwraymond/storops/pipeline"
)

type staticTransport struct{}

func (staticTransport) Do(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(`{"value":[]}`)),
	}, nil
}

func ExampleExecutor_Do() {
	uri, _ := account.NewStorageUri("https://demo.table.stor.cloudapi.net")
	exec, _ := pipeline.NewExecutor(pipeline.Config{
		Uri:       uri,
		Transport: staticTransport{},
	})

	anonymous := &options.RequestOptions{AuthScheme: options.Disabled[auth.Scheme]()}
	result, _ := exec.Do(context.Background(), &pipeline.Operation{
		Method: http.MethodGet,
		Path:   "/tables",
	}, anonymous, nil)

	fmt.Println(result.State, result.Response.StatusCode)
	fmt.Println(string(result.Response.Body))
	// Output:
	// succeeded 200
	// {"value":[]}
}

func ExampleOperationContext() {
	uri, _ := account.NewStorageUri("https://demo.table.stor.cloudapi.net")
	exec, _ := pipeline.NewExecutor(pipeline.Config{
		Uri:       uri,
		Transport: staticTransport{},
	})

	opctx := &pipeline.OperationContext{ClientRequestID: "example-request"}
	opctx.PreSend = func(info pipeline.PreSendInfo) {
		fmt.Println("sending attempt", info.Attempt, "to", info.Location)
	}

	anonymous := &options.RequestOptions{AuthScheme: options.Disabled[auth.Scheme]()}
	result, _ := exec.Do(context.Background(), &pipeline.Operation{
		Method: http.MethodGet,
		Path:   "/tables",
	}, anonymous, opctx)

	fmt.Println("attempts recorded:", len(result.Attempts))
	// Output:
	// sending attempt 1 to primary
	// attempts recorded: 1
}
