package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitvault/pkg/api"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "splitvault.v1.AuthService"
)

// Procedure paths of AuthService.
const (
	AuthServiceRegisterProcedure          = "/splitvault.v1.AuthService/Register"
	AuthServiceLoginProcedure             = "/splitvault.v1.AuthService/Login"
	AuthServiceGetCurrentAccountProcedure = "/splitvault.v1.AuthService/GetCurrentAccount"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentAccount(context.Context, *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler serving every AuthService procedure.
// It returns the path prefix to mount the handler on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	registerHandler := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	getCurrentAccountHandler := connect.NewUnaryHandler(AuthServiceGetCurrentAccountProcedure, svc.GetCurrentAccount, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			registerHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceGetCurrentAccountProcedure:
			getCurrentAccountHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentAccount(context.Context, *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error)
}

// NewAuthServiceClient creates a AuthService client talking to baseURL
// (for example, http://localhost:8080).
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &authServiceClient{
		register:          connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:             connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentAccount: connect.NewClient[api.GetCurrentAccountRequest, api.GetCurrentAccountResponse](httpClient, baseURL+AuthServiceGetCurrentAccountProcedure, opts...),
	}
}

type authServiceClient struct {
	register          *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login             *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentAccount *connect.Client[api.GetCurrentAccountRequest, api.GetCurrentAccountResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentAccount(ctx context.Context, req *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error) {
	return c.getCurrentAccount.CallUnary(ctx, req)
}
