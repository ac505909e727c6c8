package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/config"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/repository"
	"github.com/watchdesk/staff-scheduler/backend/internal/seed"
	"github.com/watchdesk/staff-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入标准班次, 3: 插入缺省人数要求, 4: 插入随机周期排班, 5: 导入真实花名册)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.EmailDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		cnt := seed.SeedShiftTypes(repo)
		slog.Info("插入标准班次成功", slog.Int("count", cnt))
	case 3:
		cnt := seed.SeedDefaultRequirements(repo)
		slog.Info("插入缺省人数要求成功", slog.Int("count", cnt))
	case 4:
		// 为每一个现有用户都随机安排周期排班
		shiftTypes, err := repo.GetAllShiftTypes()
		if err != nil {
			slog.Error("无法获取班次列表", slog.String("error", err.Error()))
			return
		}
		if len(shiftTypes) == 0 {
			slog.Error("数据库中没有班次，请先执行 -op 2")
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}

		startDate := time.Now().Truncate(24 * time.Hour)
		cnt := 0
		for _, user := range users {
			// 每个用户固定跟一个班次
			st := shiftTypes[rand.Intn(len(shiftTypes))]
			for _, day := range utils.GenerateRandomRecurringDays() {
				rs := &domain.RecurringSchedule{
					UserID:      user.ID,
					ShiftTypeID: st.ID,
					DayOfWeek:   day,
					StartDate:   startDate,
				}
				if err := repo.CreateRecurringSchedule(rs); err != nil {
					slog.Error("无法插入周期排班", slog.String("error", err.Error()))
					continue
				}
				cnt++
			}
		}

		slog.Info("插入周期排班成功", slog.Int("count", cnt))
	case 5:
		seed.SeedRealData(repo, cfg.Seed.User.Password)
	default:
		slog.Error("指定的操作非法")
	}
}
