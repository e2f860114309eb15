package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/db"
	iotGrpc "liyu1981.xyz/insole-monitor-service/pkg/grpc"
	pb "liyu1981.xyz/insole-monitor-service/pkg/grpc/telemetry_service"
	iotHttp "liyu1981.xyz/insole-monitor-service/pkg/http"
	"liyu1981.xyz/insole-monitor-service/pkg/ingest"
	"liyu1981.xyz/insole-monitor-service/pkg/iot"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
	"liyu1981.xyz/insole-monitor-service/pkg/notify"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	iotDbType := os.Getenv(common.EnvKeyIOTDBType)
	switch iotDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown IOT_DB_TYPE: " + iotDbType)
	}

	grpcHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyIOTGrpcHostPort))
	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyIOTHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyIOTDefaultRate), 64); err != nil {
		log.Fatal("Invalid IOT_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyIOTDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid IOT_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	dispatchBuffer := iot.DefaultDispatchBuffer
	if v := strings.TrimSpace(os.Getenv(common.EnvKeyIOTDispatchBuffer)); v != "" {
		if dispatchBuffer, err = strconv.Atoi(v); err != nil || dispatchBuffer <= 0 {
			log.Fatal("Invalid IOT_DISPATCH_BUFFER, should be a positive int value")
		}
	}

	thresholds, err := config.LoadFile(strings.TrimSpace(os.Getenv(common.EnvKeyIOTThresholdsFile)))
	if err != nil {
		log.Fatalf("Invalid IOT_THRESHOLDS_FILE: %v", err)
	}

	location := time.UTC
	if tz := strings.TrimSpace(os.Getenv(common.EnvKeyIOTTimezone)); tz != "" {
		if location, err = time.LoadLocation(tz); err != nil {
			log.Fatalf("Invalid IOT_TIMEZONE: %v", err)
		}
	}

	notifier, err := notify.Open(os.Getenv(common.EnvKeyIOTNotifier), notify.Options{
		RedisAddr:    os.Getenv(common.EnvKeyIOTRedisAddr),
		RedisStream:  os.Getenv(common.EnvKeyIOTRedisStream),
		KafkaBrokers: os.Getenv(common.EnvKeyIOTKafkaBroker),
		KafkaTopic:   os.Getenv(common.EnvKeyIOTKafkaTopic),
	})
	if err != nil {
		log.Fatalf("Invalid IOT_NOTIFIER: %v", err)
	}

	logger := common.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	iotCore := iot.New(iot.Options{
		Store:          dbInstance,
		Notifier:       notifier,
		Thresholds:     thresholds,
		Location:       location,
		Metrics:        metrics.New(),
		DispatchBuffer: dispatchBuffer,
	})
	iotCore.Start(ctx)
	defer iotCore.Close()

	applied, err := iotCore.LoadDeviceConfigs()
	if err != nil {
		log.Fatalf("failed to load device configs: %v", err)
	}
	logger.Info("Loaded device configs", zap.Int("applied", applied), zap.String("timezone", location.String()))

	limiterStore := iot.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst))
	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst))

	if grpcHostPort != "" {
		logger.Info("Starting gRPC server on port " + grpcHostPort)
		go func() {
			iotGrpcServer := iotGrpc.IOTServer{
				Iot:              iotCore,
				RateLimiterStore: limiterStore,
			}
			interceptor := iotGrpcServer.CreateRateLimitInterceptor(iotGrpc.LimitedRequests())
			s := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
			pb.RegisterTelemetryServiceServer(s, &iotGrpcServer)
			logger.Info("gRPC server created with:", defaultLimiter)

			listener, err := net.Listen("tcp", grpcHostPort)
			if err != nil {
				log.Fatalf("failed to listen: %v", err)
			}

			logger.Info("start gRPC server on " + grpcHostPort)
			if err := s.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if broker := strings.TrimSpace(os.Getenv(common.EnvKeyIOTMqttBroker)); broker != "" {
		sub := ingest.NewSubscriber(iotCore.Telemetry, limiterStore, iotCore.Metrics, ingest.Options{
			Broker:   broker,
			ClientID: os.Getenv(common.EnvKeyIOTMqttClientID),
			Topic:    os.Getenv(common.EnvKeyIOTMqttTopic),
			QoS:      1,
		})
		if err := sub.Connect(); err != nil {
			log.Fatalf("mqtt subscriber failed to connect: %v", err)
		}
		defer sub.Close()
		logger.Info("MQTT subscriber connected to " + broker)
	}

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &iotHttp.RestfulServer{
		Server:           gin.Default(),
		Iot:              iotCore,
		RateLimiterStore: limiterStore,
	}
	rs.Setup()

	logger.Info("http server created with:", defaultLimiter)

	go func() {
		logger.Info("Starting HTTP server on: " + httpHostPort)
		if err := rs.Server.Run(httpHostPort); err != nil {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down, draining background jobs")
}
