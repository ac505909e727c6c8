package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/watchdesk/staff-scheduler/backend/internal/config"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/metrics"
	"github.com/watchdesk/staff-scheduler/backend/internal/notify"
	"github.com/watchdesk/staff-scheduler/backend/internal/repository"
	"github.com/watchdesk/staff-scheduler/backend/internal/roster"
	"github.com/watchdesk/staff-scheduler/backend/internal/vacancy"
)

type Handler struct {
	validate        *validator.Validate
	config          *config.Config
	repository      *repository.Repository
	translator      ut.Translator
	dispatchChannel *amqp.Channel
	redisClient     *redis.Client
	hub             *notify.Hub
	reader          *roster.Reader
	pipeline        *vacancy.Pipeline

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, dispatchCh *amqp.Channel, rdb *redis.Client, hub *notify.Hub) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	h := &Handler{
		validate:        validate,
		config:          cfg,
		repository:      repo,
		translator:      trans,
		dispatchChannel: dispatchCh,
		redisClient:     rdb,
		hub:             hub,

		Mux: chi.NewRouter(),
	}

	// 空缺警报流水线：Evaluator -> AlertStore -> Fanout
	if repo != nil {
		h.reader = roster.NewReader(repo, repo)
		evaluator := vacancy.NewEvaluator(repo, h.reader, cfg.Vacancy.HorizonDays)
		var events vacancy.EventPublisher
		if rdb != nil {
			events = notify.NewPublisher(rdb, time.Duration(cfg.Redis.PublishTimeout)*time.Second)
		}
		fanout := vacancy.NewFanout(repo, repo, events, cfg.Vacancy.BatchSize)
		h.pipeline = vacancy.NewPipeline(evaluator, repo, fanout)
	}

	return h, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 对外的派发接口，供通知渠道调用，带 CORS 预检
	h.Mux.Route("/send-vacancy-alert", func(r chi.Router) {
		r.Use(h.cors)
		r.HandleFunc("/", h.SendVacancyAlert)
	})
	h.Mux.Route("/send-text-alert", func(r chi.Router) {
		r.Use(h.cors)
		r.HandleFunc("/", h.SendTextAlert)
	})
	h.Mux.Route("/update-password", func(r chi.Router) {
		r.Use(h.cors)
		r.HandleFunc("/", h.UpdatePassword)
	})

	h.Mux.Method("GET", "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/shift-types", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateShiftType)
			r.Get("/", h.GetAllShiftTypes)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftType)
				r.Get("/", h.GetShiftType)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateShiftType)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteShiftType)
			})
		})

		r.Route("/minimum-staffing", func(r chi.Router) {
			r.Get("/", h.GetAllRequirements)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/", h.UpsertRequirement)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Route("/recurring", func(r chi.Router) {
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSupervisor})).Post("/", h.CreateRecurringSchedule)
				r.Get("/", h.GetMyRecurringSchedules)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSupervisor})).Delete("/{id}", h.DeleteRecurringSchedule)
			})
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSupervisor})).Post("/exceptions", h.CreateScheduleException)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSupervisor})).Post("/assignments", h.CreateShiftAssignment)
			r.Get("/snapshots", h.GetSnapshots)
		})

		r.Route("/vacancy-alerts", func(r chi.Router) {
			r.Get("/", h.GetVacancyAlerts)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSupervisor})).Post("/scan", h.ScanVacancies)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSupervisor})).Get("/export", h.ExportVacancyAlerts)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.vacancyAlert)
				r.Get("/", h.GetVacancyAlert)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleSupervisor})).Patch("/status", h.UpdateVacancyAlertStatus)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyNotifications)
			r.Patch("/{id}/read", h.MarkNotificationRead)
			r.Get("/ws", h.NotificationsWebSocket)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetAllWebsiteSettings)
			r.Get("/{key}", h.GetWebsiteSetting)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/", h.UpsertWebsiteSetting)
		})
	})
}
