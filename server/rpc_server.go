package server

import (
	"context"
	"errors"
	"expvar"
	"net"
	"net/http"
	"net/rpc"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/quad/internal/logger"
	"github.com/powerman/rpc-codec/jsonrpc2"
	"github.com/rcrowley/go-metrics"
)

type rpcServer struct {
	rpcServer  *rpc.Server
	httpServer http.Server
	log        logger.Logger

	m        sync.Mutex
	listener net.Listener
	doneC    chan struct{}
}

func newRPCServer(s *Server) *rpcServer {
	h := &rpcHandler{server: s}
	srv := rpc.NewServer()
	_ = srv.RegisterName("Index", h)

	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		metrics.WriteJSONOnce(s.metrics.registry, w)
	})
	mux.Handle("/", jsonrpc2.HTTPHandler(srv))

	return &rpcServer{
		rpcServer: srv,
		httpServer: http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: logger.New("rpc server"),
	}
}

func (s *rpcServer) Start(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.m.Lock()
	s.listener = listener
	s.doneC = make(chan struct{})
	s.m.Unlock()

	s.log.Infoln("RPC server is listening on", listener.Addr().String())

	go func() {
		defer close(s.doneC)
		err := s.httpServer.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		s.log.Errorln("RPC server stopped:", err.Error())
	}()

	return nil
}

func (s *rpcServer) Addr() net.Addr {
	s.m.Lock()
	defer s.m.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *rpcServer) Stop(timeout time.Duration) error {
	s.m.Lock()
	doneC := s.doneC
	s.m.Unlock()
	if doneC == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	<-doneC
	return err
}
