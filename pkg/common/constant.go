package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTDBType string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath string = "IOT_DB_PATH"

	EnvKeyIOTHttpHostPort string = "IOT_HTTP_HOST_PORT"
	EnvKeyIOTGrpcHostPort string = "IOT_GRPC_HOST_PORT"

	EnvKeyIOTDefaultRate  string = "IOT_DEFAULT_RATE"
	EnvKeyIOTDefaultBurst string = "IOT_DEFAULT_BURST"

	EnvKeyIOTThresholdsFile string = "IOT_THRESHOLDS_FILE"
	EnvKeyIOTTimezone       string = "IOT_TIMEZONE"
	EnvKeyIOTDispatchBuffer string = "IOT_DISPATCH_BUFFER"

	EnvKeyIOTMqttBroker   string = "IOT_MQTT_BROKER"
	EnvKeyIOTMqttTopic    string = "IOT_MQTT_TOPIC"
	EnvKeyIOTMqttClientID string = "IOT_MQTT_CLIENT_ID"

	EnvKeyIOTNotifier    string = "IOT_NOTIFIER"
	EnvKeyIOTRedisAddr   string = "IOT_REDIS_ADDR"
	EnvKeyIOTRedisStream string = "IOT_REDIS_STREAM"
	EnvKeyIOTKafkaBroker string = "IOT_KAFKA_BROKERS"
	EnvKeyIOTKafkaTopic  string = "IOT_KAFKA_TOPIC"

	LoggerNameIOTCore       string = "iot_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameIngest        string = "ingest"
	LoggerNameDispatch      string = "dispatch"

	LoggerFieldIOTCategory     string = "category"
	LoggerCategoryIOTTelemetry string = "telemetry"
	LoggerCategoryIOTAlert     string = "alert"
	LoggerCategoryIOTSummary   string = "summary"
	LoggerCategoryIOTConfig    string = "config"
)
