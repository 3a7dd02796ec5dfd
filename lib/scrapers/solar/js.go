package solar

import "fmt"

// javascript run inside the portal pages. every snippet evaluates to
// a boolean so callers can tell "acted" from "nothing to act on".

// fillLoginScript locates the credential fields and fills them. The
// password field is unambiguous by type; the username is the first
// writable text/email input whose hint doesn't mark it as the
// server/site picker some portals put first. native switches to the
// prototype value setter, which reactive frameworks notice when a
// plain assignment is silently reverted.
func fillLoginScript(username, password string, native bool) string {
	return fmt.Sprintf(`(() => {
  const inputs = Array.from(document.querySelectorAll('input'));
  const pass = inputs.find((el) => el.type === 'password');
  const texts = inputs.filter((el) =>
    (el.type === 'text' || el.type === 'email' || !el.type) && !el.readOnly);
  const user = texts.find((el) => {
    const hint = ((el.placeholder || '') + ' ' + (el.getAttribute('aria-label') || '')).toLowerCase();
    return !/servidor|server|select a site|selecione/.test(hint);
  }) || texts[0];
  if (!user || !pass) return false;
  const fill = (el, value) => {
    if (%t) {
      Object.getOwnPropertyDescriptor(HTMLInputElement.prototype, 'value').set.call(el, value);
    } else {
      el.value = value;
    }
    for (const type of ['input', 'change', 'blur']) {
      el.dispatchEvent(new Event(type, { bubbles: true }));
    }
  };
  fill(user, %q);
  fill(pass, %q);
  return true;
})()`, native, username, password)
}

const submitLoginScript = `(() => {
  const controls = Array.from(document.querySelectorAll('button, input[type="submit"], [role="button"], a'));
  const btn = controls.find((el) =>
    /login|entrar|acessar|sign in|log in|登录/i.test((el.textContent || el.value || '').trim()));
  if (btn) { btn.click(); return true; }
  const form = document.querySelector('form');
  if (form) { form.submit(); return true; }
  return false;
})()`

const consentScript = `(() => {
  const controls = Array.from(document.querySelectorAll('button, a, [role="button"]'));
  const btn = controls.find((el) => {
    const text = (el.textContent || '').trim().toLowerCase();
    return /^(sim, eu concordo|concordo|aceitar( todos| cookies)?|accept( all)?|i agree|agree|allow( all)?|permitir|consentir|ok|got it|entendi|同意)$/.test(text);
  });
  if (btn) { btn.click(); return true; }
  return false;
})()`

// compliance/announcement modals that block the form until closed
const dismissDialogScript = `(() => {
  const close = document.querySelector(
    '.el-dialog__headerbtn, .ant-modal-close, [aria-label="Close"], [aria-label="close"]');
  if (close) { close.click(); return true; }
  return false;
})()`

const accountTabScript = `(() => {
  const tabs = Array.from(document.querySelectorAll('[role="tab"], .el-tabs__item, .ant-tabs-tab'));
  const tab = tabs.find((el) => /account|conta|senha|password/i.test(el.textContent || ''));
  if (tab) { tab.click(); return true; }
  return false;
})()`

const sitePickerScript = `(() => {
  const picker = Array.from(document.querySelectorAll('input')).find((el) => {
    const hint = ((el.placeholder || '') + ' ' + (el.getAttribute('aria-label') || '')).toLowerCase();
    return el.readOnly && /servidor|server|select a site|selecione/.test(hint);
  });
  if (!picker) return false;
  picker.click();
  const option = document.querySelector(
    '.el-select-dropdown__item, .ant-select-item-option, li[role="option"]');
  if (option) { option.click(); return true; }
  return false;
})()`

const invalidCredentialsScript = `(() => {
  const text = document.body ? document.body.innerText : '';
  return /incorret[oa]|invalid|incorrect|wrong|falha|failed|credencial/i.test(text);
})()`

const listViewToggleScript = `(() => {
  const icon = document.querySelector(
    'use[href="#icon-tableDisplay"], use[*|href="#icon-tableDisplay"]');
  if (icon) {
    const target = icon.closest('button, [role="button"], span, div') || icon.parentElement;
    if (target) { target.click(); return true; }
  }
  const toggle = Array.from(document.querySelectorAll(
    'button, [role="button"], .el-radio-button, .ant-radio-button-wrapper'))
    .find((el) => /list|lista|table|tabela/i.test(
      (el.getAttribute('title') || '') + ' ' + (el.textContent || '')));
  if (toggle) { toggle.click(); return true; }
  return false;
})()`

// raises the page size to the largest option the pagination offers
const pageSizeScript = `(() => {
  const select = document.querySelector(
    '.ant-pagination-options-size-changer, .el-pagination__sizes .el-input__inner, select[class*="size"]');
  if (!select) return false;
  select.click();
  const options = Array.from(document.querySelectorAll(
    '.ant-select-item-option, .el-select-dropdown__item, option'))
    .filter((el) => /\d+/.test(el.textContent || ''))
    .sort((a, b) => parseInt(b.textContent, 10) - parseInt(a.textContent, 10));
  const target = options[0];
  if (!target) return false;
  if (target.tagName === 'OPTION') {
    select.value = target.value;
    select.dispatchEvent(new Event('change', { bubbles: true }));
  } else {
    target.click();
  }
  return true;
})()`

const paginationDisabledCheck = `(el) =>
    el.disabled || el.getAttribute('aria-disabled') === 'true' ||
    /disabled/.test(el.className || '')`

const nextControlScript = `(() => {
  const isDisabled = ` + paginationDisabledCheck + `;
  const controls = Array.from(document.querySelectorAll(
    '.ant-pagination-next, .el-pagination .btn-next, [aria-label="Next page"], ' +
    '[aria-label="next page"], a[rel="next"], button[class*="next"], li[class*="next"]'));
  const target = controls.find((el) => !isDisabled(el));
  if (target) { target.click(); return true; }
  const byText = Array.from(document.querySelectorAll('button, a, li')).find((el) =>
    /^(próxima?|proxima?|next|>|»)$/i.test((el.textContent || '').trim()) && !isDisabled(el));
  if (byText) { byText.click(); return true; }
  return false;
})()`

func numberedPageScript(page int) string {
	return fmt.Sprintf(`(() => {
  const target = Array.from(document.querySelectorAll(
    '.ant-pagination-item, .el-pager li, li, a, button'))
    .find((el) => (el.textContent || '').trim() === '%d');
  if (!target) return false;
  target.click();
  return true;
})()`, page)
}

const genericAdvanceScript = `(() => {
  const isDisabled = ` + paginationDisabledCheck + `;
  const box = document.querySelector('[class*="pagination"], [class*="pager"], .el-pager');
  if (!box) return false;
  const items = Array.from(box.querySelectorAll('button, a, li')).filter((el) => !isDisabled(el));
  const current = items.findIndex((el) => /active|current|selected/.test(el.className || ''));
  const target = current >= 0 ? items[current + 1] : null;
  if (!target) return false;
  target.click();
  return true;
})()`

const rightmostControlScript = `(() => {
  const isDisabled = ` + paginationDisabledCheck + `;
  const box = document.querySelector('[class*="pagination"], [class*="pager"], .el-pager');
  if (!box) return false;
  const items = Array.from(box.querySelectorAll('button, a, li')).filter((el) => !isDisabled(el));
  const target = items[items.length - 1];
  if (!target) return false;
  target.click();
  return true;
})()`
