package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/watchdesk/staff-scheduler/backend/internal/config"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件客户端（模拟模式下不需要真实连接）
	 **********************************************/
	var mailClient *mail.Client
	if !cfg.Dispatch.Simulate {
		mailClient, err = mail.NewClient(cfg.Email.SMTP.Host,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithSSL(),
			mail.WithPort(cfg.Email.SMTP.Port),
			mail.WithUsername(cfg.Email.SMTP.Username),
			mail.WithPassword(cfg.Email.SMTP.Password),
		)
		if err != nil {
			logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
			return
		}
		defer mailClient.Close()

		// 验证邮件客户端是否连接成功
		clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
		defer cancel()
		if err := mailClient.DialWithContext(clientDialCtx); err != nil {
			logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
			return
		}
	}

	smsClient := &http.Client{Timeout: time.Duration(cfg.SMS.RequestTimeout) * time.Second}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		"dispatch_queue", // 队列名称
		true,             // 是否持久化
		false,            // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false,            // 是否独占，即是否允许多个消费者访问这个队列
		false,            // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
		nil,              // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,  // 是否自动确认消息
		false,  // 是否独占队列
		false,  // 是否禁止消费者接受自己发送的消息，必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,  // 是否不等待，等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("收到消息", slog.String("message", string(msg.Body)))
				dispatch := domain.DispatchMessage{}
				if err := json.Unmarshal(msg.Body, &dispatch); err != nil {
					logger.Error("派发消息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// 模拟模式下只记录意图，不触碰任何外部服务
				if cfg.Dispatch.Simulate {
					logger.Info("模拟派发",
						slog.String("channel", string(dispatch.Channel)),
						slog.String("to", dispatch.To),
						slog.String("subject", dispatch.Subject),
					)
					_ = msg.Ack(false)
					continue
				}

				switch dispatch.Channel {
				case domain.DispatchChannelEmail:
					if err := sendEmail(cfg, mailClient, &dispatch); err != nil {
						logger.Error("邮件发送失败", slog.String("error", err.Error()))
						_ = msg.Nack(false, true) // 将消息重新入队
						continue
					}
				case domain.DispatchChannelSMS:
					if err := sendSMS(cfg, smsClient, &dispatch); err != nil {
						logger.Error("短信发送失败", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
				default:
					logger.Error("不支持的派发渠道", slog.String("channel", string(dispatch.Channel)))
					_ = msg.Nack(false, false)
					continue
				}

				// 确认消息
				_ = msg.Ack(false)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 notifier worker...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("notifier worker 已成功关闭")
}

func sendEmail(cfg *config.Config, client *mail.Client, dispatch *domain.DispatchMessage) error {
	m := mail.NewMsg()
	if err := m.From(cfg.Email.From); err != nil {
		return fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(dispatch.To); err != nil {
		return fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	tmpl, err := template.ParseFiles("./templates/vacancy_alert_email.html")
	if err != nil {
		return fmt.Errorf("无法解析邮件模板: %w", err)
	}
	data := domain.VacancyAlertMailData{
		Subject: dispatch.Subject,
		Message: dispatch.Message,
		AlertID: dispatch.AlertID,
	}
	if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(dispatch.Subject)

	return client.DialAndSend(m)
}

func sendSMS(cfg *config.Config, client *http.Client, dispatch *domain.DispatchMessage) error {
	if cfg.SMS.ProviderURL == "" || cfg.SMS.APIKey == "" {
		return fmt.Errorf("短信服务未配置")
	}

	payload, err := json.Marshal(map[string]string{
		"to":        dispatch.To,
		"message":   dispatch.Message,
		"sender_id": cfg.SMS.SenderID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, cfg.SMS.ProviderURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.SMS.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("短信服务返回异常状态码: %d", resp.StatusCode)
	}

	return nil
}
