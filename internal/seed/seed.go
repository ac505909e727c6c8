package seed

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// StandardShiftTypes 是大多数场站通用的三班倒配置
var StandardShiftTypes = []domain.ShiftType{
	{Name: "Day", StartTime: "07:00:00", EndTime: "15:00:00", DisplayOrder: 1},
	{Name: "Evening", StartTime: "15:00:00", EndTime: "23:00:00", DisplayOrder: 2},
	{Name: "Night", StartTime: "23:00:00", EndTime: "07:00:00", DisplayOrder: 3},
}

// SeedShiftTypes 插入标准班次，已存在同名班次时由数据库约束拦下
func SeedShiftTypes(r *repository.Repository) int {
	cnt := 0
	for i := range StandardShiftTypes {
		st := StandardShiftTypes[i]
		if err := r.CreateShiftType(&st); err != nil {
			slog.Error("无法插入班次", "name", st.Name, "error", err)
			continue
		}
		cnt++
	}
	return cnt
}

// SeedDefaultRequirements 为每个班次的每一天写入缺省的人数要求
func SeedDefaultRequirements(r *repository.Repository) int {
	shiftTypes, err := r.GetAllShiftTypes()
	if err != nil {
		slog.Error("无法获取班次列表", "error", err)
		return 0
	}

	cnt := 0
	for _, st := range shiftTypes {
		for day := int32(0); day <= 6; day++ {
			req := domain.DefaultRequirement(day, st.ID)
			if err := r.UpsertRequirement(req); err != nil {
				slog.Error("无法写入人数要求", "shiftTypeID", st.ID, "dayOfWeek", day, "error", err)
				continue
			}
			cnt++
		}
	}
	return cnt
}

// SeedRealData 从 CSV 导入真实花名册：
// 表头为 full_name,username,email,phone,role,shift,days
// 其中 days 是以 / 分隔的周几列表，例如 1/3/5
func SeedRealData(r *repository.Repository, password string) {
	file, err := os.Open("./internal/seed/data/roster.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}
	col := make(map[string]int, len(headers))
	for i, header := range headers {
		col[strings.TrimSpace(header)] = i
	}
	for _, required := range []string{"full_name", "username", "email", "phone", "role", "shift", "days"} {
		if _, ok := col[required]; !ok {
			slog.Error("缺少必要的列", "column", required)
			return
		}
	}

	shiftTypes, err := r.GetAllShiftTypes()
	if err != nil {
		slog.Error("无法获取班次列表", "error", err)
		return
	}
	shiftIDByName := make(map[string]int64, len(shiftTypes))
	for _, st := range shiftTypes {
		shiftIDByName[st.Name] = st.ID
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("无法生成密码哈希", "error", err)
		return
	}

	userCnt := 0
	scheduleCnt := 0
	startDate := time.Now().Truncate(24 * time.Hour)
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		user := &domain.User{
			Username:     strings.TrimSpace(row[col["username"]]),
			PasswordHash: string(passwordHash),
			FullName:     strings.TrimSpace(row[col["full_name"]]),
			Email:        strings.TrimSpace(row[col["email"]]),
			Phone:        strings.TrimSpace(row[col["phone"]]),
			Role:         domain.Role(strings.TrimSpace(row[col["role"]])),
			IsActive:     true,
		}
		switch user.Role {
		case domain.RoleOfficer, domain.RoleSupervisor, domain.RoleAdmin:
		default:
			slog.Error("非法的角色", "username", user.Username, "role", user.Role)
			continue
		}
		if err := r.CreateUser(user); err != nil {
			slog.Error("无法插入用户", "username", user.Username, "error", err)
			continue
		}
		userCnt++

		shiftName := strings.TrimSpace(row[col["shift"]])
		shiftTypeID, ok := shiftIDByName[shiftName]
		if !ok {
			slog.Error("未知的班次名", "username", user.Username, "shift", shiftName)
			continue
		}

		for _, dayStr := range strings.Split(row[col["days"]], "/") {
			day, err := strconv.ParseInt(strings.TrimSpace(dayStr), 10, 32)
			if err != nil || day < 0 || day > 6 {
				slog.Error("非法的周几", "username", user.Username, "day", dayStr)
				continue
			}
			rs := &domain.RecurringSchedule{
				UserID:      user.ID,
				ShiftTypeID: shiftTypeID,
				DayOfWeek:   int32(day),
				StartDate:   startDate,
			}
			if err := r.CreateRecurringSchedule(rs); err != nil {
				slog.Error("无法插入周期排班", "username", user.Username, "error", err)
				continue
			}
			scheduleCnt++
		}
	}

	slog.Info("导入花名册成功", "users", userCnt, "schedules", scheduleCnt)
}
