package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/timestamppb"

	"liyu1981.xyz/insole-monitor-service/pkg/codec"
	pb "liyu1981.xyz/insole-monitor-service/pkg/grpc/telemetry_service"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

var maxDevices int = 2000
var packetsPerDevice int = 5
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient pb.TelemetryServiceClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := range maxDevices {
		deviceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = pb.NewTelemetryServiceClient(conn)

	fmt.Printf("gRPC server verified and connected\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			insertConfig(deviceIDs[i])
			fmt.Printf("\rinserted config for device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rinserted config for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			doAction(deviceIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	actionsPerDevice := packetsPerDevice + 3
	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*actionsPerDevice)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func rndActivity() models.Activity {
	activities := []models.Activity{
		models.ActivityResting,
		models.ActivitySitting,
		models.ActivityStanding,
		models.ActivityWalking,
		models.ActivityRunning,
	}
	rndMu.Lock()
	defer rndMu.Unlock()
	return activities[rnd.Intn(len(activities))]
}

// rndPacket mostly produces calm readings, with the occasional hot spot or
// pressure peak so the alert path gets exercised too.
func rndPacket() []byte {
	r := models.Reading{
		SpO2:         rndFloat64(94, 99, 1),
		HeartRate:    int(rndFloat64(60, 110, 0)),
		StepCount:    int(rndFloat64(0, 5000, 0)),
		Activity:     rndActivity(),
		BatteryLevel: int(rndFloat64(5, 100, 0)),
	}
	for z := range models.ZoneCount {
		r.Temperatures[z] = rndFloat64(29, 33, 1)
		r.Pressures[z] = rndFloat64(10, 35, 1)
	}
	if rndFloat64(0, 1, 2) < 0.1 {
		r.Temperatures[0] = rndFloat64(36, 40, 1)
	}
	if rndFloat64(0, 1, 2) < 0.1 {
		r.Pressures[1] = rndFloat64(45, 70, 1)
	}
	packet := codec.Encode(r)
	return packet[:]
}

func insertConfig(deviceID string) {
	payload := map[string]float64{
		"pressure_warning_kpa":  rndFloat64(35, 45, 1),
		"pressure_critical_kpa": rndFloat64(55, 65, 1),
	}

	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(fmt.Sprintf("http://%s/devices/%s/config", httpHostPort, deviceID), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		panic(fmt.Sprintf("config rejected for %s: %v", deviceID, resp.Status))
	}
}

func doAction(deviceID string) {
	actions := []func(){
		genGetAlertsAction(deviceID),
		genGetAssessmentAction(deviceID),
		genGetSummariesAction(deviceID),
	}
	actionNames := []string{
		"GetAlerts",
		"GetAssessment",
		"GetSummaries",
	}

	// packets go first so the reads have something to return
	for range packetsPerDevice {
		genPostPacketAction(deviceID)()
		time.Sleep(time.Duration(rndFloat64(100, 1100, 0)) * time.Millisecond)
	}

	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	rndMu.Unlock()
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], deviceID)
		time.Sleep(time.Duration(rndFloat64(100, 1100, 0)) * time.Millisecond)
	}
}

func genPostPacketAction(deviceID string) func() {
	return func() {
		useHttp := flipCoin()
		packet := rndPacket()

		if useHttp {
			resp, err := http.Post(fmt.Sprintf("http://%s/devices/%s/packets", httpHostPort, deviceID), "application/octet-stream", bytes.NewReader(packet))
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				fmt.Printf("\nresponse status code != 200: %v\n", resp.Status)
			}
		} else {
			resp, err := grpcClient.PostPacket(context.Background(), &pb.PostPacketRequest{
				DeviceId:  deviceID,
				Packet:    packet,
				Timestamp: timestamppb.Now(),
			})
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			if !resp.Status.Success {
				fmt.Printf("\nresponse success = false: %v\n", resp)
			}
		}
	}
}

func genGetAssessmentAction(deviceID string) func() {
	return func() {
		useHttp := flipCoin()

		if useHttp {
			resp, err := http.Get(fmt.Sprintf("http://%s/devices/%s/assessment", httpHostPort, deviceID))
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				fmt.Printf("\nresponse status code != 200: %v\n", resp.Status)
			}
		} else {
			resp, err := grpcClient.GetAssessment(context.Background(), &pb.DeviceRequest{DeviceId: deviceID})
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			if !resp.Status.Success {
				fmt.Printf("\nresponse success = false: %v\n", resp)
			}
		}
	}
}

func genGetAlertsAction(deviceID string) func() {
	return func() {
		useHttp := flipCoin()

		if useHttp {
			resp, err := http.Get(fmt.Sprintf("http://%s/devices/%s/alerts", httpHostPort, deviceID))
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				fmt.Printf("\nresponse status code != 200: %v\n", resp.Status)
			}
		} else {
			resp, err := grpcClient.GetAlerts(context.Background(), &pb.GetAlertsRequest{DeviceId: deviceID, ActiveOnly: true})
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			if !resp.Status.Success {
				fmt.Printf("\nresponse success = false: %v\n", resp)
			}
		}
	}
}

func genGetSummariesAction(deviceID string) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/devices/%s/summaries", httpHostPort, deviceID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp.Status)
		}
	}
}
