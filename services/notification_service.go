package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// InterfaceNotificationService 定义门岗事件通知服务接口
// 所有发布都是 fire-and-forget: 发布失败只记日志，绝不向门岗决策流程传播
type InterfaceNotificationService interface {
	Connect() error
	Disconnect()
	PublishApprovalRequest(request *models.ExitApprovalRequest) error
	PublishGateEvent(tenantID uint, eventType models.GateEventType, vehicleID uint, details string) error
}

// 主题常量
const (
	// 出场审批通知主题，住户端订阅
	TopicApprovalIncoming = "gate/approval/incoming"

	// 门岗事件主题，物业端订阅
	TopicGateEvent = "gate/event"
)

// 消息结构体定义
type (
	// ApprovalRequestMessage 出场审批通知消息
	ApprovalRequestMessage struct {
		MessageID   string `json:"message_id"`
		TenantID    uint   `json:"tenant_id"`
		RequestID   uint   `json:"request_id"`
		SessionID   uint   `json:"session_id"`
		VehicleID   uint   `json:"vehicle_id"`
		ResidentID  uint   `json:"resident_id"`
		RequestedBy string `json:"requested_by"`
		ExpiresAt   int64  `json:"expires_at"`
		Timestamp   int64  `json:"timestamp"`
	}

	// GateEventMessage 门岗事件消息
	GateEventMessage struct {
		MessageID string `json:"message_id"`
		TenantID  uint   `json:"tenant_id"`
		EventType string `json:"event_type"`
		VehicleID uint   `json:"vehicle_id"`
		Details   string `json:"details"`
		Timestamp int64  `json:"timestamp"`
	}
)

// NotificationService 基于MQTT的门岗事件通知实现
type NotificationService struct {
	Config         *config.Config
	Client         mqtt.Client
	IsConnected    bool
	connectedMutex sync.RWMutex // 保护IsConnected字段的读写
	PublishMutex   sync.Mutex   // 用于保护MQTT消息发布
}

// NewNotificationService 创建一个新的通知服务
func NewNotificationService(cfg *config.Config) InterfaceNotificationService {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetUsername(cfg.MQTTUsername)
	opts.SetPassword(cfg.MQTTPassword)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)

	if cfg.MQTTSSLEnabled {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	return &NotificationService{
		Config: cfg,
		Client: mqtt.NewClient(opts),
	}
}

// Connect 连接到MQTT服务器，带指数退避重试
func (s *NotificationService) Connect() error {
	log.Printf("[MQTT] 正在连接到 %s...", s.Config.MQTTBrokerURL)

	// 加锁，确保同一时间只有一个连接尝试
	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if isConnected {
		return nil
	}

	// 添加最大重试次数和指数退避策略
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			s.connectedMutex.Lock()
			s.IsConnected = true
			s.connectedMutex.Unlock()
			log.Printf("[MQTT] 成功连接到 %s", s.Config.MQTTBrokerURL)
			return nil
		}

		err = token.Error()
		backoffTime := time.Duration(1<<uint(i)) * time.Second // 指数退避: 1s, 2s, 4s, 8s, 16s
		log.Printf("[MQTT] 连接尝试 %d/%d 失败: %v, 将在 %v 后重试", i+1, maxRetries, err, backoffTime)
		time.Sleep(backoffTime)
	}

	return fmt.Errorf("[MQTT] 连接失败，已尝试 %d 次: %v", maxRetries, err)
}

// Disconnect 断开与MQTT服务器的连接
func (s *NotificationService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// PublishApprovalRequest 向住户端推送新的出场审批请求
func (s *NotificationService) PublishApprovalRequest(request *models.ExitApprovalRequest) error {
	msg := ApprovalRequestMessage{
		MessageID:   uuid.New().String(),
		TenantID:    request.TenantID,
		RequestID:   request.ID,
		SessionID:   request.SessionID,
		VehicleID:   request.VehicleID,
		ResidentID:  request.ResidentID,
		RequestedBy: request.RequestedBy,
		ExpiresAt:   request.ExpiresAt.UnixMilli(),
		Timestamp:   time.Now().UnixMilli(),
	}
	return s.publish(TopicApprovalIncoming, msg)
}

// PublishGateEvent 推送门岗事件
func (s *NotificationService) PublishGateEvent(tenantID uint, eventType models.GateEventType, vehicleID uint, details string) error {
	msg := GateEventMessage{
		MessageID: uuid.New().String(),
		TenantID:  tenantID,
		EventType: string(eventType),
		VehicleID: vehicleID,
		Details:   details,
		Timestamp: time.Now().UnixMilli(),
	}
	return s.publish(TopicGateEvent, msg)
}

// publish 发布JSON消息
func (s *NotificationService) publish(topic string, payload interface{}) error {
	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client != nil && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if !isConnected {
		return fmt.Errorf("MQTT未连接，消息未发布: %s", topic)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	token := s.Client.Publish(topic, byte(s.Config.MQTTQoS), false, data)
	if token.WaitTimeout(3*time.Second) && token.Error() != nil {
		return token.Error()
	}
	return nil
}
